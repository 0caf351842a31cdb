package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/gin-gonic/gin"
)

type CredentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
}

type UserHandler struct {
	users        *services.UserService
	tokens       *auth.TokenService
	cookieSecure bool
}

func NewUserHandler(users *services.UserService, tokens *auth.TokenService, cookieSecure bool) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, cookieSecure: cookieSecure}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, common.NewValidationError("body", err.Error()))
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		RespondError(c, err)
		return
	}

	setTokenCookie(c, token, h.tokens.TTL(), h.cookieSecure)
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, common.NewValidationError("body", err.Error()))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		RespondError(c, err)
		return
	}

	setTokenCookie(c, token, h.tokens.TTL(), h.cookieSecure)
	redirect(c, "/profile")
}

// Logout only drops the cookie; the token itself stays valid until it expires.
func (h *UserHandler) Logout(c *gin.Context) {
	clearTokenCookie(c, h.cookieSecure)
	redirect(c, "/")
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Admin(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	list, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": user, "users": len(list)})
}

func (h *UserHandler) List(c *gin.Context) {
	list, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondError(c, common.NewValidationError("body", err.Error()))
		return
	}

	id := c.Param("id")
	if _, err := h.users.UpdateCredentials(c.Request.Context(), id, req.Email, req.Password); err != nil {
		RespondError(c, err)
		return
	}

	redirect(c, "/users/"+id)
}

func (h *UserHandler) Delete(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	if caller.ID == id {
		clearTokenCookie(c, h.cookieSecure)
	}
	redirect(c, "/")
}
