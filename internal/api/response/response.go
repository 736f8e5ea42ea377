// Package response provides the uniform error envelope returned by every
// endpoint: {"error":{"code","message","context"}}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cubongjay/ragchat/internal/domain"
)

// Error codes exposed to clients
const (
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeMessageNotFound = "MESSAGE_NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorBody is the JSON error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code, human message and optional context
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// Abort writes the envelope for the given status/code and aborts the request
func Abort(c *gin.Context, status int, code, message string, context map[string]any) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{
		Code:    code,
		Message: message,
		Context: context,
	}})
}

// FromError maps a use-case error to its HTTP status and envelope.
// Unrecognized errors become a 500 without leaking their message.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		Abort(c, http.StatusNotFound, CodeSessionNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrMessageNotFound):
		Abort(c, http.StatusNotFound, CodeMessageNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidRequest):
		Abort(c, http.StatusUnprocessableEntity, CodeValidation, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		Abort(c, http.StatusUnauthorized, CodeUnauthorized, err.Error(), nil)
	case errors.Is(err, domain.ErrRateLimited):
		Abort(c, http.StatusTooManyRequests, CodeRateLimited, err.Error(), nil)
	case errors.Is(err, domain.ErrNoResponse):
		Abort(c, http.StatusBadGateway, CodeExternalService, err.Error(), nil)
	default:
		Abort(c, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
	}
}
