package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pricewise/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/search", handler.Search)
		api.GET("/autocomplete", handler.Autocomplete)
		api.GET("/geocode/reverse", handler.ReverseGeocode)
		api.GET("/config", handler.PlatformConfig)
	}

	router.NoRoute(handler.NotFound)

	return router
}
