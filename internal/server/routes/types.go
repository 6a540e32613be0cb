package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/handlers"
	"github.com/osa911/portfolio/internal/api/middleware"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
	Metrics gin.HandlerFunc
}

// Middleware contains the middleware applied to specific routes
type Middleware struct {
	Validation   *middleware.ValidationMiddleware
	ContactLimit gin.HandlerFunc
	MaxBodyBytes int64
}
