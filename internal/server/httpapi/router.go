// Package httpapi exposes the user and todo services over HTTP with gin.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/access"
	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"github.com/dmitrijs2005/gophtodo/internal/server/config"
	"github.com/dmitrijs2005/gophtodo/internal/server/ratelimit"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config      *config.Config
	Users       *services.UserService
	Todos       *services.TodoService
	Tokens      *auth.TokenService
	RateLimiter ratelimit.Limiter
	Logger      logging.Logger
}

// NewRouter builds the gin engine. X-Forwarded-For is honored only from
// deps.Config.TrustedProxies; with none configured the client address is the
// TCP peer, which is what the rate limiter keys on.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(RequestID())
	router.Use(Logger(deps.Logger))
	router.Use(gin.Recovery())

	userHandler := NewUserHandler(deps.Users, deps.Tokens, deps.Config.CookieSecure)
	todoHandler := NewTodoHandler(deps.Todos)

	authenticated := access.NewPipeline(access.Authenticate{Tokens: deps.Tokens, Users: deps.Users})
	limited := RateLimit(deps.RateLimiter, deps.Logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/users", limited, userHandler.Register)
	router.POST("/login", limited, userHandler.Login)
	router.GET("/logout", userHandler.Logout)

	router.GET("/profile", Guard(authenticated), userHandler.Profile)
	router.GET("/admin", Guard(authenticated, adminStage), userHandler.Admin)
	router.GET("/users", Guard(authenticated, adminStage), userHandler.List)

	users := router.Group("/users/:id", ValidID("id"), Guard(authenticated, ownerOrAdminStage("id")))
	{
		users.GET("", userHandler.Get)
		users.PATCH("", userHandler.Update)
		users.DELETE("", userHandler.Delete)
	}

	todos := router.Group("/todos", Guard(authenticated))
	{
		todos.GET("", todoHandler.List)
		todos.POST("", todoHandler.Create)
		todos.POST("/remind", todoHandler.Remind)
		todos.GET("/:id", ValidID("id"), todoHandler.Get)
		todos.PATCH("/:id", ValidID("id"), todoHandler.Update)
		todos.DELETE("/:id", ValidID("id"), todoHandler.Delete)
	}

	return router, nil
}
