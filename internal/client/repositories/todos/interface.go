package todos

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

// Repository is the local copy of the last todo list fetched from the server.
type Repository interface {
	// ReplaceAll drops the cached list and stores list in its place, keeping
	// the order given.
	ReplaceAll(ctx context.Context, list []models.Todo) error

	// GetAll returns the cached list in stored order.
	GetAll(ctx context.Context) ([]models.Todo, error)

	Clear(ctx context.Context) error
}
