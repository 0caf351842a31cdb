package services

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// emailFormat checks syntax only, no DNS lookups.
var emailFormat = validation.NewStringRule(govalidator.IsEmail, "must be a valid email address")

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeTitle trims and lowercases a todo title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func validateEmail(email string) error {
	if err := validation.Validate(email, validation.Required, validation.RuneLength(3, 254), emailFormat); err != nil {
		return common.NewValidationError("email", err.Error())
	}
	return nil
}

func validatePassword(pw string) error {
	if !auth.ValidatePassword(pw) {
		return common.NewValidationError("password",
			"must be 8 to 100 characters and contain a lowercase letter, an uppercase letter, a digit and a special character")
	}
	return nil
}

func validateTitle(title string) error {
	if err := validation.Validate(title, validation.Required, validation.RuneLength(1, 100)); err != nil {
		return common.NewValidationError("title", err.Error())
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.NewValidationError("id", "must be a valid id")
	}
	return nil
}

// storeError passes through the errors callers branch on and wraps anything
// else as a persistence failure of op.
func storeError(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrAlreadyExists) {
		return err
	}
	return &common.PersistenceError{Op: op, Err: err}
}
