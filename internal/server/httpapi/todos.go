package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/gin-gonic/gin"
)

type CreateTodoRequest struct {
	Title string `json:"title" form:"title"`
}

type UpdateTodoRequest struct {
	Title     *string `json:"title" form:"title"`
	Completed *bool   `json:"completed" form:"completed"`
}

type TodoHandler struct {
	todos *services.TodoService
}

func NewTodoHandler(todos *services.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

func (h *TodoHandler) List(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	list, err := h.todos.List(c.Request.Context(), caller)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TodoHandler) Create(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var req CreateTodoRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, common.NewValidationError("body", err.Error()))
		return
	}

	if _, err := h.todos.Create(c.Request.Context(), caller, req.Title); err != nil {
		RespondError(c, err)
		return
	}
	redirect(c, "/todos")
}

func (h *TodoHandler) Get(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) Update(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, common.NewValidationError("body", err.Error()))
		return
	}

	patch := services.TodoPatch{Title: req.Title, Completed: req.Completed}
	if _, err := h.todos.Update(c.Request.Context(), caller, c.Param("id"), patch); err != nil {
		RespondError(c, err)
		return
	}
	redirect(c, "/todos")
}

func (h *TodoHandler) Delete(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.todos.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	redirect(c, "/todos")
}

func (h *TodoHandler) Remind(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	if _, err := h.todos.Remind(c.Request.Context(), caller); err != nil {
		RespondError(c, err)
		return
	}
	redirect(c, "/todos")
}
