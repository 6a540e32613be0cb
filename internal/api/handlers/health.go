package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/osa911/portfolio/internal/api/dto/common"
	"github.com/osa911/portfolio/internal/utils"
	"github.com/osa911/portfolio/internal/version"
)

type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type HealthHandler struct {
	redis *redis.Client
}

// NewHealthHandler creates a health handler. redis may be nil when the
// rate limiter runs in memory.
func NewHealthHandler(redis *redis.Client) *HealthHandler {
	return &HealthHandler{redis: redis}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			utils.HandleAPIError(c, err, http.StatusServiceUnavailable, common.ErrCodeInternalServer, "Redis connection error")
			return
		}
	}

	utils.HandleSuccess(c, HealthStatus{Status: "ok", Version: version.Version})
}
