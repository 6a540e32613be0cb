package utils

import (
	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client IP. X-Forwarded-For and X-Real-IP are only
// honoured when the direct peer is one of the engine's trusted proxies
// (see gin.Engine.SetTrustedProxies); otherwise the socket address is used.
// Rate limiting and the notification footer both key on this value.
func GetRealIP(c *gin.Context) string {
	return c.ClientIP()
}
