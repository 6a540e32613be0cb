package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/constants"
	"github.com/osa911/portfolio/internal/api/dto/common"
	contactdto "github.com/osa911/portfolio/internal/api/dto/v1/contact"
	"github.com/osa911/portfolio/internal/contact"
	"github.com/osa911/portfolio/internal/service"
)

// ValidationMiddleware handles request validation
type ValidationMiddleware struct {
	metrics *service.RelayMetrics
}

func NewValidationMiddleware(metrics *service.RelayMetrics) *ValidationMiddleware {
	return &ValidationMiddleware{metrics: metrics}
}

// ValidateContactRequest binds the relay payload and applies the same field
// rules the form enforces. A missing field binds as "" and fails them.
func (m *ValidationMiddleware) ValidateContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactdto.RelayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.metrics.Rejected()
			c.AbortWithStatusJSON(http.StatusBadRequest,
				common.NewErrorResponse(common.ErrCodeBadRequest, "Invalid request body"))
			return
		}

		if result := contact.Validate(req.Form()); !result.Valid() {
			m.metrics.Rejected()
			fields := make(map[string]string, len(result))
			for f, msg := range result {
				fields[string(f)] = msg
			}
			c.AbortWithStatusJSON(http.StatusBadRequest,
				common.NewValidationErrorResponse("Validation failed", fields))
			return
		}

		c.Set(constants.ContextKeyContact, &req)
		c.Next()
	}
}
