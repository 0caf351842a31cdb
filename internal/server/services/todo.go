package services

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/notify"
	"github.com/dmitrijs2005/gophtodo/internal/server/ownership"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
)

// TodoPatch lists the fields of a todo a caller may change. Nil fields are
// left untouched. The creator is never patchable.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

// TodoService runs every todo operation under the caller's ownership scope.
// A todo owned by another user is reported as common.ErrorNotFound unless
// the caller is an administrator.
type TodoService struct {
	repomanager repomanager.RepositoryManager
	notifier    notify.Notifier
	logger      logging.Logger
}

func NewTodoService(m repomanager.RepositoryManager, notifier notify.Notifier, logger logging.Logger) *TodoService {
	return &TodoService{
		repomanager: m,
		notifier:    notifier,
		logger:      logger.With("module", "todos"),
	}
}

func (s *TodoService) Create(ctx context.Context, caller *models.User, title string) (*models.Todo, error) {
	title = NormalizeTitle(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	todo := &models.Todo{Title: title}
	ownership.Stamp(todo, caller)

	created, err := s.repomanager.Todos(s.repomanager.DB()).Create(ctx, todo)
	if err != nil {
		return nil, storeError("create todo", err)
	}
	return created, nil
}

// List returns the caller's todos; administrators get every todo.
func (s *TodoService) List(ctx context.Context, caller *models.User) ([]*models.Todo, error) {
	scope := ownership.ScopeFor(caller, "")
	list, err := s.repomanager.Todos(s.repomanager.DB()).List(ctx, scope.CreatorID)
	if err != nil {
		return nil, storeError("list todos", err)
	}
	return list, nil
}

func (s *TodoService) Get(ctx context.Context, caller *models.User, id string) (*models.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	todo, err := s.repomanager.Todos(s.repomanager.DB()).Get(ctx, ownership.ScopeFor(caller, id))
	if err != nil {
		return nil, storeError("get todo", err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, caller *models.User, id string, patch TodoPatch) (*models.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var title string
	if patch.Title != nil {
		title = NormalizeTitle(*patch.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
	}

	scope := ownership.ScopeFor(caller, id)
	repo := s.repomanager.Todos(s.repomanager.DB())

	cur, err := repo.Get(ctx, scope)
	if err != nil {
		return nil, storeError("get todo", err)
	}
	if patch.Title != nil {
		cur.Title = title
	}
	if patch.Completed != nil {
		cur.Completed = *patch.Completed
	}

	updated, err := repo.Update(ctx, scope, cur)
	if err != nil {
		return nil, storeError("update todo", err)
	}
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, caller *models.User, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repomanager.Todos(s.repomanager.DB()).Delete(ctx, ownership.ScopeFor(caller, id)); err != nil {
		return storeError("delete todo", err)
	}
	return nil
}

// Remind sends the caller a reminder with the number of incomplete todos
// and returns that number.
func (s *TodoService) Remind(ctx context.Context, caller *models.User) (int, error) {
	n, err := s.repomanager.Todos(s.repomanager.DB()).CountPending(ctx, caller.ID)
	if err != nil {
		return 0, storeError("count todos", err)
	}
	s.notifier.Notify(ctx, notify.Message{Kind: notify.Reminder, Email: caller.Email, Pending: n})
	return n, nil
}
