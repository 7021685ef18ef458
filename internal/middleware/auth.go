package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
)

// SessionChecker reports whether a backend session is active.
type SessionChecker interface {
	Authenticated() bool
}

// RequireSession rejects requests while no backend session is active, so
// data routes never reach the backend without a token.
func RequireSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.Authenticated() {
			abortWith(c, apperrors.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

// errInvalidAPIKey is returned when the daemon API key does not match.
var errInvalidAPIKey = &apperrors.AppError{
	Code:       "INVALID_API_KEY",
	Message:    "Invalid or missing API key",
	StatusCode: http.StatusUnauthorized,
}

// APIKeyAuth guards the local API with a shared key sent as X-API-Key or as a
// Bearer token. An empty key disables the check.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWith(c, errInvalidAPIKey)
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{"error": gin.H{"code": err.Code, "message": err.Message}})
}
