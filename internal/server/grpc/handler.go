package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/access"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

// handler implements pb.TodoServiceServer on top of the services.
type handler struct {
	s *GRPCServer
}

func (h *handler) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"status": "OK"})
}

func (h *handler) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	u, err := h.s.users.Register(ctx, stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		return nil, toStatus(err)
	}
	return h.session(u)
}

func (h *handler) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	u, err := h.s.users.Authenticate(ctx, stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		return nil, toStatus(err)
	}
	return h.session(u)
}

func (h *handler) session(u *models.User) (*structpb.Struct, error) {
	token, err := h.s.tokens.Issue(u)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"token": token, "user": userValue(u)})
}

func (h *handler) ListTodos(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	list, err := h.s.todos.List(ctx, caller)
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]any, 0, len(list))
	for _, t := range list {
		items = append(items, todoValue(t))
	}
	return structpb.NewStruct(map[string]any{"todos": items})
}

func (h *handler) CreateTodo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	todo, err := h.s.todos.Create(ctx, caller, stringField(req, "title"))
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"todo": todoValue(todo)})
}

func (h *handler) UpdateTodo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	var patch services.TodoPatch
	if v, ok := req.GetFields()["title"]; ok {
		title := v.GetStringValue()
		patch.Title = &title
	}
	if v, ok := req.GetFields()["completed"]; ok {
		completed := v.GetBoolValue()
		patch.Completed = &completed
	}

	todo, err := h.s.todos.Update(ctx, caller, stringField(req, "id"), patch)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"todo": todoValue(todo)})
}

func (h *handler) DeleteTodo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := h.s.todos.Delete(ctx, caller, stringField(req, "id")); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

// DeleteAccount removes the caller and every todo they created.
func (h *handler) DeleteAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := h.s.users.DeleteUser(ctx, caller.ID); err != nil {
		return nil, toStatus(err)
	}
	return &structpb.Struct{}, nil
}

func callerFrom(ctx context.Context) (*models.User, error) {
	u, ok := access.UserFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no user in context", common.ErrorInternal)
	}
	return u, nil
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func userValue(u *models.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"email":     u.Email,
		"isAdmin":   u.IsAdmin,
		"createdAt": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func todoValue(t *models.Todo) map[string]any {
	return map[string]any{
		"id":        t.ID,
		"title":     t.Title,
		"completed": t.Completed,
		"creatorId": t.CreatorID,
		"createdAt": t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
