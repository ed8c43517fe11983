package rest

import (
	"net/http"

	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	games  *services.GameService
	logger logging.Logger
}

func NewGameHandler(g *services.GameService, l logging.Logger) *GameHandler {
	return &GameHandler{games: g, logger: l}
}

func (h *GameHandler) Create(c *gin.Context) {
	var req gameRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}

	g, err := h.games.Create(c.Request.Context(), req.patch())
	if err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// List serves GET /api/games?page=&limit=&tag=&q=.
func (h *GameHandler) List(c *gin.Context) {
	f := models.NewGameFilter(c.Query("page"), c.Query("limit"), c.Query("tag"), c.Query("q"))

	list, err := h.games.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *GameHandler) Get(c *gin.Context) {
	g, err := h.games.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GameHandler) Update(c *gin.Context) {
	var req gameRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}

	g, err := h.games.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GameHandler) Delete(c *gin.Context) {
	if err := h.games.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgGameDeleted})
}

// UploadImage presigns a PUT for the game's image. The body carries the
// image content type.
func (h *GameHandler) UploadImage(c *gin.Context) {
	var req imageUploadRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}

	up, err := h.games.PresignImageUpload(c.Request.Context(), c.Param("id"), req.ContentType)
	if err != nil {
		writeError(c, h.logger, err, msgGameNotFound)
		return
	}
	c.JSON(http.StatusOK, imageUploadResponse{UploadURL: up.UploadURL, Key: up.Key, Game: up.Game})
}
