package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	userIDKey    = "userID"
	requestIDKey = "requestID"
)

// TokenVerifier is satisfied by *auth.TokenIssuer.
type TokenVerifier interface {
	UserID(token string) (string, error)
}

// requestID reuses the caller's X-Request-ID or mints a ULID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

func recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error(c.Request.Context(), "panic recovered",
			"route", c.FullPath(), "request_id", c.GetString(requestIDKey), "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, messageResponse{Message: msgServerError})
	})
}

// requireToken accepts "Authorization: Bearer <jwt>" and stores the user id
// for the handler.
func requireToken(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgMissingToken})
			return
		}

		userID, err := tokens.UserID(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: msgInvalidToken})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
