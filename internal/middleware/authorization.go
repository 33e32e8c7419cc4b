package middleware

import (
	"net/http"

	"game_dashboard/pkg/auth"
	"game_dashboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authorization struct{}

func NewAuthorization() *Authorization {
	return &Authorization{}
}

// AdminOnly must run after auth.TokenAuth.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		if !c.GetBool(auth.ContextKeyAdmin) {
			log.Info("unauthorized write attempt",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}
