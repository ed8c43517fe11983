package rest

import (
	"net/http"

	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewUserHandler(u *services.UserService, l logging.Logger) *UserHandler {
	return &UserHandler{users: u, logger: l}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err, msgUserNotFound)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		writeError(c, h.logger, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgUserDeleted})
}
