package handlers

import (
	"context"
	"errors"
	"net/http"

	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	bearerChallenge = "Bearer"
	errInternal     = "internal server error"
	errTimeout      = "request timed out"
)

// resolveError maps service outcomes to a status and a client-safe message.
// Only unexpected errors report ok=false; those are logged by the caller.
func resolveError(err error) (code int, msg string, ok bool) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, service.ErrUnauthenticated.Error(), true
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error(), true
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, service.ErrConflict.Error(), true
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, service.ErrNotFound.Error(), true
	case errors.Is(err, service.ErrInvalidInput):
		// Validation messages name fields only, never stored data.
		return http.StatusUnprocessableEntity, err.Error(), true
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errTimeout, false
	}
	return http.StatusInternalServerError, errInternal, false
}

// respondError writes the JSON error envelope for err, adding the bearer
// challenge on 401 and logging anything unexpected under logKey.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, msg, known := resolveError(err)
	if !known && h.log != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	if code == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", bearerChallenge)
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
