package handlers

import (
	"errors"
	"net/http"

	"task_tracker/internal/metrics"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both register and token. The token
// endpoint also accepts OAuth2 password-grant form bodies.
type authCredentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type userResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// bindOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "username and password"
// @Success      201    {object}  userResponse
// @Failure      400    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /auth/register [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
		}
		h.respondError(c, err, "auth_sign_up_error", "username", input.Username)
		return
	}

	metrics.UsersRegisteredTotal.Inc()
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// @Summary      Obtain access token
// @Description  OAuth2 password grant: exchange username and password for a bearer token.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        input  body      authCredentials  true  "username and password"
// @Success      200    {object}  tokenResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/token [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.AuthFailuresTotal.WithLabelValues("login").Inc()
		}
		h.respondError(c, err, "auth_sign_in_error", "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresIn:   int(token.ExpiresIn.Seconds()),
	})
}
