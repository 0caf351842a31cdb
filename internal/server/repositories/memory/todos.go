package memory

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/google/uuid"
)

var errForeignKey = errors.New("user still owns todos")

type todoRepo struct {
	handle
}

func inScope(t *models.Todo, scope models.Scope) bool {
	return scope.Unrestricted() || t.CreatorID == scope.CreatorID
}

func (r *todoRepo) Create(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	s := r.s
	r.lock()
	defer r.unlock()

	if _, ok := s.users[todo.CreatorID]; !ok {
		return nil, errForeignKey
	}

	todo.ID = uuid.NewString()
	todo.CreatedAt = s.now()

	stored := *todo
	s.todos[todo.ID] = &stored
	s.order[todo.ID] = s.next()

	return todo, nil
}

func (r *todoRepo) Get(_ context.Context, scope models.Scope) (*models.Todo, error) {
	r.rlock()
	defer r.runlock()

	t, ok := r.s.todos[scope.ID]
	if !ok || !inScope(t, scope) {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (r *todoRepo) List(_ context.Context, creatorID string) ([]*models.Todo, error) {
	r.rlock()
	defer r.runlock()

	ids := make([]string, 0)
	for id, t := range r.s.todos {
		if creatorID == "" || t.CreatorID == creatorID {
			ids = append(ids, id)
		}
	}
	r.s.sorted(ids)

	result := make([]*models.Todo, 0, len(ids))
	for _, id := range ids {
		t := *r.s.todos[id]
		result = append(result, &t)
	}
	return result, nil
}

func (r *todoRepo) Update(_ context.Context, scope models.Scope, todo *models.Todo) (*models.Todo, error) {
	r.lock()
	defer r.unlock()

	t, ok := r.s.todos[scope.ID]
	if !ok || !inScope(t, scope) {
		return nil, common.ErrorNotFound
	}
	t.Title = todo.Title
	t.Completed = todo.Completed

	out := *t
	return &out, nil
}

func (r *todoRepo) Delete(_ context.Context, scope models.Scope) error {
	r.lock()
	defer r.unlock()

	t, ok := r.s.todos[scope.ID]
	if !ok || !inScope(t, scope) {
		return common.ErrorNotFound
	}
	delete(r.s.todos, scope.ID)
	delete(r.s.order, scope.ID)
	return nil
}

func (r *todoRepo) DeleteByCreator(_ context.Context, creatorID string) (int64, error) {
	r.lock()
	defer r.unlock()

	var n int64
	for id, t := range r.s.todos {
		if t.CreatorID == creatorID {
			delete(r.s.todos, id)
			delete(r.s.order, id)
			n++
		}
	}
	return n, nil
}

func (r *todoRepo) CountPending(_ context.Context, creatorID string) (int, error) {
	r.rlock()
	defer r.runlock()

	n := 0
	for _, t := range r.s.todos {
		if t.CreatorID == creatorID && !t.Completed {
			n++
		}
	}
	return n, nil
}
