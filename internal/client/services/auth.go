// Package services contains application services for the gophtodo client.
// This file defines the authentication service: login, register, logout,
// account deletion, liveness ping, and the locally remembered email.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login / Register: authenticate against the server and remember the email.
//   - Logout: forget the token and wipe the local cache.
//   - DeleteAccount: delete the account on the server, then behave like Logout.
//   - LastEmail: the email of the last successful login, if any.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Register(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	LoggedIn() bool
	LastEmail(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	repos  *client.Repositories
}

func NewAuthService(c client.Client, repos *client.Repositories) AuthService {
	return &authService{client: c, repos: repos}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	u, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.remember(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *authService) Register(ctx context.Context, email string, password []byte) (*models.User, error) {
	u, err := a.client.Register(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	if err := a.remember(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// remember stores the email of u. A different account invalidates the
// cached todo list.
func (a *authService) remember(ctx context.Context, u *models.User) error {
	return dbx.WithTx(ctx, a.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := newTxRepos(tx)

		prev, err := repos.metadata.Get(ctx, metadata.KeyEmail)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if prev != u.Email {
			if err := repos.todos.Clear(ctx); err != nil {
				return err
			}
		}
		return repos.metadata.Set(ctx, metadata.KeyEmail, u.Email)
	})
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return a.clearLocalData(ctx)
}

func (a *authService) DeleteAccount(ctx context.Context) error {
	if err := a.client.DeleteAccount(ctx); err != nil {
		return fmt.Errorf("delete account error: %w", err)
	}
	return a.clearLocalData(ctx)
}

func (a *authService) clearLocalData(ctx context.Context) error {
	return dbx.WithTx(ctx, a.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := newTxRepos(tx)
		if err := repos.todos.Clear(ctx); err != nil {
			return err
		}
		return repos.metadata.Clear(ctx)
	})
}

func (a *authService) LoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *authService) LastEmail(ctx context.Context) (string, error) {
	return a.repos.Metadata.Get(ctx, metadata.KeyEmail)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client and the cache.
func (a *authService) Close(ctx context.Context) error {
	return errors.Join(a.client.Close(), a.repos.DB.Close())
}
