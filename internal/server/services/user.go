// Package services contains server-side business logic: the credential store
// with account lifecycle (UserService) and owner-scoped todos (TodoService).
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/incidents"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/notify"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
)

// UserService owns user identity records: registration, credential checks,
// credential updates and account deletion with its todos.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	notifier    notify.Notifier
	reporter    incidents.Reporter
	logger      logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, notifier notify.Notifier,
	reporter incidents.Reporter, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      auth.NewPasswordHasher(cfg.HashCost),
		notifier:    notifier,
		reporter:    reporter,
		logger:      logger.With("module", "users"),
	}
}

func (s *UserService) create(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	repo := s.repomanager.Users(s.repomanager.DB())
	u, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		return nil, storeError("create user", err)
	}
	return u, nil
}

// Register creates a regular user. The email is normalized before it is
// validated; a taken email yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.create(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	s.notifier.Notify(ctx, notify.Message{Kind: notify.Welcome, Email: u.Email})
	return u, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.repomanager.DB())
	u, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, &common.AuthenticationError{Reason: common.AuthInvalid}
		}
		return nil, storeError("get user", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, &common.AuthenticationError{Reason: common.AuthInvalid}
	}
	return u, nil
}

// dummy returns a hash compared against when the email is unknown, so that
// both failure paths cost one bcrypt comparison.
func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("Dummy-Password-1")
	})
	return s.dummyHash
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := validateID(id); err != nil {
		return nil, common.ErrorNotFound
	}
	u, err := s.repomanager.Users(s.repomanager.DB()).GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.repomanager.DB()).List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return list, nil
}

// UpdateCredentials changes the email and/or password of user id. Nil
// arguments are left unchanged. The password is rehashed only when a new one
// is supplied.
func (s *UserService) UpdateCredentials(ctx context.Context, id string, email, password *string) (*models.User, error) {
	var (
		newEmail string
		newHash  string
	)
	if email != nil {
		newEmail = NormalizeEmail(*email)
		if err := validateEmail(newEmail); err != nil {
			return nil, err
		}
	}
	if password != nil {
		if err := validatePassword(*password); err != nil {
			return nil, err
		}
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if email == nil && password == nil {
		return u, nil
	}

	if email != nil {
		u.Email = newEmail
	}
	if password != nil {
		newHash, err = s.hasher.Hash(*password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = newHash
	}

	updated, err := s.repomanager.Users(s.repomanager.DB()).Update(ctx, u)
	if err != nil {
		return nil, storeError("update user", err)
	}

	s.logger.Info(ctx, "credentials updated", "user_id", id, "email", email != nil, "password", password != nil)
	return updated, nil
}

// EnsureAdmin makes sure an administrator with the given email exists,
// registering it with password when absent.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.repomanager.DB())

	u, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, common.ErrorNotFound) {
		if u, err = s.create(ctx, email, password); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, storeError("get user", err)
	}

	if !u.IsAdmin {
		if err := repo.SetAdmin(ctx, u.ID, true); err != nil {
			return nil, storeError("set admin", err)
		}
		u.IsAdmin = true
		s.logger.Info(ctx, "administrator granted", "user_id", u.ID)
	}
	return u, nil
}

// DeleteUser removes user id together with every todo it created, in one
// transaction. When the commit fails the outcome is unknown: the returned
// PersistenceError is marked partial and an incident is reported.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	var removed int64
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Todos(tx).DeleteByCreator(ctx, id)
		if err != nil {
			return fmt.Errorf("delete todos: %w", err)
		}
		removed = n
		if err := s.repomanager.Users(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, dbx.ErrCommitFailed):
		perr := &common.PersistenceError{Op: "delete user", Partial: true, Err: err}
		if rerr := s.reporter.Report(ctx, incidents.New("delete user", id, u.Email, err)); rerr != nil {
			s.logger.Error(ctx, "incident report failed", "user_id", id, "error", rerr)
		}
		return perr
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	default:
		return &common.PersistenceError{Op: "delete user", Err: err}
	}

	s.logger.Info(ctx, "user deleted", "user_id", id, "todos_removed", removed)
	s.notifier.Notify(ctx, notify.Message{Kind: notify.Cancellation, Email: u.Email})
	return nil
}
