package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// scoped appends the owner filter to a statement already filtering on id = $1.
// The owner, when present, is bound as the next positional argument.
func scoped(query string, scope models.Scope, args ...any) (string, []any) {
	args = append([]any{scope.ID}, args...)
	if scope.Unrestricted() {
		return query, args
	}
	args = append(args, scope.CreatorID)
	return fmt.Sprintf("%s AND creator_id = $%d", query, len(args)), args
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {

	query :=
		`INSERT INTO todos (id, title, completed, creator_id)
         VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	id := uuid.NewString()
	err := r.db.QueryRowContext(ctx, query,
		id, todo.Title, todo.Completed, todo.CreatorID).Scan(&todo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	todo.ID = id
	return todo, nil
}

func (r *PostgresRepository) Get(ctx context.Context, scope models.Scope) (*models.Todo, error) {
	query, args := scoped(
		`SELECT id, title, completed, creator_id, created_at FROM todos WHERE id = $1`, scope)

	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.CreatorID, &todo.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) List(ctx context.Context, creatorID string) ([]*models.Todo, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if creatorID == "" {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, title, completed, creator_id, created_at FROM todos ORDER BY created_at, id`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT id, title, completed, creator_id, created_at FROM todos WHERE creator_id = $1 ORDER BY created_at, id`,
			creatorID)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Todo{}
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.CreatorID, &todo.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, scope models.Scope, todo *models.Todo) (*models.Todo, error) {
	query, args := scoped(
		`UPDATE todos SET title = $2, completed = $3 WHERE id = $1`, scope, todo.Title, todo.Completed)
	query += ` RETURNING id, title, completed, creator_id, created_at`

	out := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&out.ID, &out.Title, &out.Completed, &out.CreatorID, &out.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, scope models.Scope) error {
	query, args := scoped(`DELETE FROM todos WHERE id = $1`, scope)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByCreator(ctx context.Context, creatorID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE creator_id = $1`, creatorID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountPending(ctx context.Context, creatorID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM todos WHERE creator_id = $1 AND NOT completed`, creatorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
