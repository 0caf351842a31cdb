package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophtodo/internal/client/repositories/todos"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
)

// TodoService runs todo commands against the server. Listing refreshes the
// local cache, and falls back to it while the server is unreachable.
type TodoService interface {
	List(ctx context.Context) (list []models.Todo, cached bool, err error)
	Add(ctx context.Context, title string) (*models.Todo, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*models.Todo, error)
	Rename(ctx context.Context, id, title string) (*models.Todo, error)
	Delete(ctx context.Context, id string) error
}

type todoService struct {
	client client.Client
	repos  *client.Repositories
}

func NewTodoService(c client.Client, repos *client.Repositories) TodoService {
	return &todoService{client: c, repos: repos}
}

type txRepos struct {
	metadata metadata.Repository
	todos    todos.Repository
}

func newTxRepos(tx dbx.DBTX) txRepos {
	return txRepos{metadata: metadata.NewSQLiteRepository(tx), todos: todos.NewSQLiteRepository(tx)}
}

func (s *todoService) List(ctx context.Context) ([]models.Todo, bool, error) {
	list, err := s.client.ListTodos(ctx)
	if errors.Is(err, client.ErrUnavailable) {
		cached, cerr := s.repos.Todos.GetAll(ctx)
		if cerr != nil {
			return nil, false, fmt.Errorf("read cache: %w", cerr)
		}
		return cached, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	err = dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return newTxRepos(tx).todos.ReplaceAll(ctx, list)
	})
	if err != nil {
		return nil, false, fmt.Errorf("update cache: %w", err)
	}
	return list, false, nil
}

func (s *todoService) Add(ctx context.Context, title string) (*models.Todo, error) {
	return s.client.CreateTodo(ctx, title)
}

func (s *todoService) SetCompleted(ctx context.Context, id string, completed bool) (*models.Todo, error) {
	return s.client.UpdateTodo(ctx, id, nil, &completed)
}

func (s *todoService) Rename(ctx context.Context, id, title string) (*models.Todo, error) {
	return s.client.UpdateTodo(ctx, id, &title, nil)
}

func (s *todoService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteTodo(ctx, id)
}
