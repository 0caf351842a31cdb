package client

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout()
	LoggedIn() bool
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, title string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id string, title *string, completed *bool) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	DeleteAccount(ctx context.Context) error
}
