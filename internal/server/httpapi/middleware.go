package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/access"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

func Logger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"request_id", c.GetString(RequestIDHeader),
			"ip", c.ClientIP(),
		}

		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			log.Error(c.Request.Context(), "request failed", append(args, "error", errs.String())...)
			return
		}
		log.Info(c.Request.Context(), "request completed", args...)
	}
}

// RateLimit rejects a client IP that exceeds its window with 429 and a
// Retry-After header. Limiter errors let the request through.
func RateLimit(limiter ratelimit.Limiter, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn(c.Request.Context(), "rate limiter unavailable", "error", err)
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			respondTooManyRequests(c)
			return
		}
		c.Next()
	}
}

// ValidID rejects a path parameter that is not a UUID with 400.
func ValidID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(param)); err != nil {
			RespondError(c, common.NewValidationError(param, "must be a valid id"))
			return
		}
		c.Next()
	}
}

// StageFor builds a pipeline stage from the current request, for stages that
// depend on path parameters.
type StageFor func(c *gin.Context) access.Stage

// Guard runs the access pipeline, extended with extra stages, against the
// token found in the request. On success the resolved user is placed in the
// request context.
func Guard(base access.Pipeline, extra ...StageFor) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := base
		for _, f := range extra {
			p = p.Then(f(c))
		}

		cookie, _ := c.Cookie(common.TokenCookieName)
		req := access.Request{Credentials: access.Credentials{
			Cookie: cookie,
			Header: c.GetHeader(common.TokenHeaderName),
		}}

		out, err := p.Run(c.Request.Context(), req)
		if err != nil {
			RespondError(c, err)
			return
		}

		c.Request = c.Request.WithContext(access.WithUser(c.Request.Context(), out.User))
		c.Next()
	}
}

func adminStage(*gin.Context) access.Stage { return access.AuthorizeAdmin{} }

func ownerOrAdminStage(param string) StageFor {
	return func(c *gin.Context) access.Stage {
		return access.AuthorizeOwnerOrAdmin{OwnerID: c.Param(param)}
	}
}

// currentUser returns the caller placed in the context by Guard.
func currentUser(c *gin.Context) (*models.User, error) {
	u, ok := access.UserFromContext(c.Request.Context())
	if !ok {
		return nil, fmt.Errorf("%w: no user in request context", common.ErrorInternal)
	}
	return u, nil
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
