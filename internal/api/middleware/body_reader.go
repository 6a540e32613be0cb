package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/portfolio/internal/api/dto/common"
)

// LimitRequestBody reads the request body once, rejecting anything larger
// than maxBytes with 413, and restores it for the next handler.
func LimitRequestBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				common.NewErrorResponse(common.ErrCodeTooLarge, "Request body too large"))
			return
		}

		bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
					common.NewErrorResponse(common.ErrCodeTooLarge, "Request body too large"))
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest,
				common.NewErrorResponse(common.ErrCodeBadRequest, "Error reading request body"))
			return
		}

		// Restore the body for subsequent middleware
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		c.Next()
	}
}
