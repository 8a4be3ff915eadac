package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Auth guards the JSON API with a shared key. An empty key disables the
// check, which is the default for local use.
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		if c.GetHeader("X-API-Key") != apiKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
