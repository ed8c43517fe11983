package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Auth    *services.AuthService
	Users   *services.UserService
	Games   *services.GameService
	Tokens  TokenVerifier
	Metrics *Metrics
	Logger  logging.Logger
}

// NewRouter registers every route on a fresh engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(
		requestID(),
		accessLog(cfg.Logger),
		recovery(cfg.Logger),
		cfg.Metrics.middleware(),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}),
	)

	r.GET("/", rootHandler)
	r.GET("/health", healthHandler)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := r.Group("/api")

	authHandler := NewAuthHandler(cfg.Auth, cfg.Users, cfg.Metrics, cfg.Logger)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", requireToken(cfg.Tokens), authHandler.Me)

	userHandler := NewUserHandler(cfg.Users, cfg.Logger)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.PUT("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)

	gameHandler := NewGameHandler(cfg.Games, cfg.Logger)
	api.POST("/games", gameHandler.Create)
	api.GET("/games", gameHandler.List)
	api.GET("/games/:id", gameHandler.Get)
	api.PUT("/games/:id", gameHandler.Update)
	api.DELETE("/games/:id", gameHandler.Delete)
	api.POST("/games/:id/image", gameHandler.UploadImage)

	return r
}

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "AirConsole API",
		"health":  "/health",
		"metrics": "/metrics",
		"api":     "/api",
	})
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
