// Package common defines shared constants and sentinel errors used across
// client and server layers of gophtodo. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrValidation        = errors.New("validation error")
	ErrPersistence       = errors.New("persistence error")

	// Token errors.
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenExpired   = errors.New("token expired")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// AuthFailure tells why a request could not be authenticated.
type AuthFailure string

const (
	AuthMissing AuthFailure = "missing"
	AuthInvalid AuthFailure = "invalid"
	AuthExpired AuthFailure = "expired"
)

// AuthenticationError is the terminal outcome of a failed Authenticate stage
// or of a failed credential check.
type AuthenticationError struct {
	Reason AuthFailure
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unauthenticated (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unauthenticated (%s)", e.Reason)
}

func (e *AuthenticationError) Is(target error) bool { return target == ErrorUnauthenticated }

func (e *AuthenticationError) Unwrap() error { return e.Err }

// DenyReason tells why an authenticated caller was refused.
type DenyReason string

const (
	DenyNotOwner DenyReason = "not owner"
	DenyNotAdmin DenyReason = "not admin"
)

type AuthorizationError struct {
	Reason DenyReason
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrorUnauthorized }

// PersistenceError wraps an unexpected storage failure. Partial is set when
// the operation may have been applied only in part and needs reconciliation.
type PersistenceError struct {
	Op      string
	Partial bool
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Partial {
		return fmt.Sprintf("%s: partially applied: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPartial reports whether err carries a partial-completion marker.
func IsPartial(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Partial
}
