package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves register, login and the current user.
type AuthHandler struct {
	auth    *services.AuthService
	users   *services.UserService
	metrics *Metrics
	logger  logging.Logger
}

func NewAuthHandler(a *services.AuthService, u *services.UserService, m *Metrics, l logging.Logger) *AuthHandler {
	return &AuthHandler{auth: a, users: u, metrics: m, logger: l}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err, "")
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.input())
	h.metrics.recordAuth("register", err)
	if err != nil {
		writeError(c, h.logger, err, "")
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err, "")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), services.LoginInput{Email: req.Email, Password: req.Password})
	h.metrics.recordAuth("login", err)
	if err != nil {
		writeError(c, h.logger, err, "")
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

// Me returns the account the bearer token belongs to.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		if errors.Is(err, common.ErrInvalidID) {
			c.JSON(http.StatusUnauthorized, messageResponse{Message: msgInvalidToken})
			return
		}
		writeError(c, h.logger, err, msgUserNotFound)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
