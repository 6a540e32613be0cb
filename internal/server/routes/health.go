package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/handlers"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler) {
	router.GET("/health", health.Check)
}

// SetupMetricsRoutes exposes Prometheus metrics
func SetupMetricsRoutes(router *gin.Engine, metrics gin.HandlerFunc) {
	if metrics == nil {
		return
	}
	router.GET("/metrics", metrics)
}
