package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/constants"
)

// CORS allows the portfolio front-end to post the form from the browser.
// An empty list or "*" allows any origin; outside production every origin
// is allowed.
func CORS(allowedOrigins []string, production bool) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID, "Retry-After"},
		MaxAge:        24 * time.Hour,
	}

	if !production || len(allowedOrigins) == 0 || contains(allowedOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowedOrigins
	}

	return cors.New(config)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
