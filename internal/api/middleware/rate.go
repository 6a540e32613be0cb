package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/dto/common"
	"github.com/osa911/portfolio/internal/contact"
	"github.com/osa911/portfolio/internal/logging"
	"github.com/osa911/portfolio/internal/service"
	"github.com/osa911/portfolio/internal/utils"
)

// ContactRateLimit refuses clients that submitted too often, keyed by the
// client IP. If the limiter itself fails the request is let through.
func ContactRateLimit(limiter service.SubmissionLimiter, metrics *service.RelayMetrics, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.GetRealIP(c)

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), clientIP)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing %s: %v", clientIP, err)
			c.Next()
			return
		}

		if !allowed {
			metrics.Rejected()
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				common.NewErrorResponse(common.ErrCodeTooManyRequests, contact.StatusRateLimited))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
