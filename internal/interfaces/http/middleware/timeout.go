// internal/interfaces/http/middleware/timeout.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout bounds the request context. Handlers see the deadline through
// c.Request.Context(); a request that ran out of time without writing a
// response gets a 503.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			abort(c, http.StatusServiceUnavailable, "Request timeout")
		}
	}
}
