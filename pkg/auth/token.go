package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ContextKeyAdmin is set to true on requests that carry the admin token.
const ContextKeyAdmin = "is_admin"

type TokenAuth struct {
	token string
}

// NewTokenAuth with an empty token treats every request as admin.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// Middleware accepts anonymous requests as read-only and rejects a wrong token.
func (t *TokenAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		if t.token == "" {
			c.Set(ContextKeyAdmin, true)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(ContextKeyAdmin, false)
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		given := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(given), []byte(t.token)) != 1 {
			log.Info("invalid admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextKeyAdmin, true)
		c.Next()
	}
}
