package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// statusFor maps the common error taxonomy onto an HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusBadRequest, "ALREADY_EXISTS"
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case common.IsPartial(err):
		return http.StatusInternalServerError, "PARTIAL_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// RespondError writes err as a JSON error body and aborts the chain.
// Internal failures are attached to the context for the request logger and
// never echoed to the client.
func RespondError(c *gin.Context, err error) {
	status, code := statusFor(err)

	body := ErrorBody{Code: code}
	switch {
	case status == http.StatusInternalServerError:
		_ = c.Error(err)
		body.Message = "internal server error"
	case status == http.StatusUnauthorized:
		_ = c.Error(err).SetType(gin.ErrorTypePublic)
		body.Message = "not permitted"
	default:
		body.Message = err.Error()
	}

	var verr *common.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
		body.Message = verr.Error()
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

func respondTooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: ErrorBody{
		Code:    "RATE_LIMITED",
		Message: "too many requests",
	}})
}
