package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cubongjay/ragchat/internal/api/response"
)

// APIKey extracts the caller's API key from X-API-Key or a Bearer token
func APIKey(c *gin.Context) string {
	key := c.GetHeader("X-API-Key")
	if key == "" {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			key = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return key
}

// Auth returns an API key authentication middleware
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth if no API key configured
		if apiKey == "" {
			c.Next()
			return
		}

		key := APIKey(c)
		if key == "" {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "API key required", nil)
			return
		}
		if key != apiKey {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid API key", nil)
			return
		}

		c.Next()
	}
}
