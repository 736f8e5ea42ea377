// Package api wires middleware and versioned handlers into the Gin engine.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cubongjay/ragchat/internal/api/middleware"
	v1 "github.com/cubongjay/ragchat/internal/api/v1"
	"github.com/cubongjay/ragchat/internal/config"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
	RateLimit    config.RateLimitConfig
}

// SetupRouter sets up the Gin router
func SetupRouter(
	sessionService v1.SessionService,
	messageService v1.MessageService,
	generator v1.ResponseGenerator,
	ingestService v1.IngestService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check (no auth, no rate limit)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Versioned API (requires API key)
	handler := v1.NewHandler(sessionService, messageService, generator, ingestService)
	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.Auth(cfg.APIKey))
	apiGroup.Use(middleware.RateLimit(cfg.RateLimit))
	handler.RegisterRoutes(apiGroup)

	return r
}
