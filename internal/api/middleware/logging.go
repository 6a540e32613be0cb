package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/constants"
	"github.com/osa911/portfolio/internal/logging"
	"github.com/osa911/portfolio/internal/utils"
)

// RequestLogger logs one line per request. Output is controlled by
// LOG_REQUESTS, see Logger.LogHTTPRequest.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
