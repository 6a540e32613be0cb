package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/osa911/portfolio/internal/api/dto/common"
	apimiddleware "github.com/osa911/portfolio/internal/api/middleware"
	"github.com/osa911/portfolio/internal/logging"
	"github.com/osa911/portfolio/internal/middleware"
)

// GlobalOptions configures middleware applied to every route.
type GlobalOptions struct {
	AllowedOrigins []string
	Production     bool
	// ServiceName enables otelgin spans when set.
	ServiceName string
}

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetLogger()

	api := router.Group("/api")
	SetupContactRoutes(api, h.Contact, m)
	SetupHealthRoutes(router, h.Health)
	SetupMetricsRoutes(router, h.Metrics)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(common.ErrCodeNotFound, "Not found"))
	})

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, opts GlobalOptions) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(apimiddleware.RequestLogger(logger))
	router.Use(apimiddleware.CORS(opts.AllowedOrigins, opts.Production))
	router.Use(apimiddleware.SecurityHeaders())
}
