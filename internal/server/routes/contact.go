package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/handlers"
	"github.com/osa911/portfolio/internal/api/middleware"
)

// SetupContactRoutes configures the contact form relay
func SetupContactRoutes(router *gin.RouterGroup, contact *handlers.ContactHandler, m *Middleware) {
	router.POST("/contact",
		m.ContactLimit,
		middleware.LimitRequestBody(m.MaxBodyBytes),
		m.Validation.ValidateContactRequest(),
		contact.Submit,
	)
}
