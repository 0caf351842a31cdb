package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/todos"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX handle and runs units
// of work transactionally.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// DB returns the non-transactional handle.
	DB() dbx.DBTX
	// WithTx runs fn atomically. A failing commit is reported wrapped in
	// dbx.ErrCommitFailed.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	Todos(db dbx.DBTX) todos.Repository
}
