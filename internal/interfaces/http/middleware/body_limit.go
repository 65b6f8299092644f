// internal/interfaces/http/middleware/body_limit.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimit caps request bodies at maxBytes
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abort(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
