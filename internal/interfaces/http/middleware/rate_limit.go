// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Limiter counts a hit for key within the current window
type Limiter interface {
	Hit(ctx context.Context, key string) (count int64, reset time.Duration, err error)
}

// RateLimit allows limit requests per client IP and window. When the
// counter store is unavailable the request is let through.
func RateLimit(limiter Limiter, limit int, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		count, reset, err := limiter.Hit(ctx, c.ClientIP())
		if err != nil {
			logger.WithError(err).WithField("request_id", c.GetString(ContextRequestID)).
				Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(reset.Seconds())+1))
			abort(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}

		c.Next()
	}
}
