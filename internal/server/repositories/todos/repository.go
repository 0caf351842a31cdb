package todos

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

// Repository persists todos. Every single-item operation runs under a
// models.Scope; an item outside the scope is reported as
// common.ErrorNotFound, the same as a missing one.
type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	Get(ctx context.Context, scope models.Scope) (*models.Todo, error)
	// List returns the todos of creatorID, or all todos when creatorID is empty.
	List(ctx context.Context, creatorID string) ([]*models.Todo, error)
	Update(ctx context.Context, scope models.Scope, todo *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, scope models.Scope) error
	DeleteByCreator(ctx context.Context, creatorID string) (int64, error)
	CountPending(ctx context.Context, creatorID string) (int, error)
}
