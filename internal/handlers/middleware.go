package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"task_tracker/internal/metrics"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userCtxKey      = "user"
	requestIDKey    = "requestId"
	requestIDHeader = "X-Request-ID"
)

// userIdentity resolves the bearer token to a user. Every rejection looks
// the same to the client: 401, a Bearer challenge and a generic message.
func (h *Handler) userIdentity(c *gin.Context) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		h.rejectBearer(c)
		return
	}

	user, err := h.services.Authenticate(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			h.rejectBearer(c)
			return
		}
		h.respondError(c, err, "auth_resolve_user_failed")
		return
	}

	// store in Gin context
	c.Set(userCtxKey, user)
	c.Next()
}

func (h *Handler) rejectBearer(c *gin.Context) {
	metrics.AuthFailuresTotal.WithLabelValues("bearer").Inc()
	h.respondError(c, service.ErrUnauthenticated, "")
}

// currentUser returns the user set by userIdentity.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// requestIDMiddleware propagates or assigns an X-Request-ID.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// observeMiddleware records metrics and an access log line per request.
func (h *Handler) observeMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

	if h.log != nil {
		h.log.Infow("http_request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// timeoutMiddleware bounds the request context so storage calls give up
// instead of waiting forever.
func (h *Handler) timeoutMiddleware(c *gin.Context) {
	if h.requestTimeout <= 0 {
		c.Next()
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/users/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(*currentUser(c)))
}
