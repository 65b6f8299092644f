// internal/infrastructure/database/redis/rate_limiter.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "rate_limit:"

// RateLimiter is a fixed-window request counter
type RateLimiter struct {
	rdb    redis.UniversalClient
	window time.Duration
}

// NewRateLimiter creates a limiter with the given window
func NewRateLimiter(rdb redis.UniversalClient, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, window: window}
}

// Hit counts one request for key and returns the count in the current window
// together with the time left until the window resets
func (l *RateLimiter) Hit(ctx context.Context, key string) (int64, time.Duration, error) {
	k := rateLimitPrefix + key

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to count request: %w", err)
	}

	left := ttl.Val()
	if left < 0 {
		// first hit of the window, or a key that lost its expiry
		if err := l.rdb.PExpire(ctx, k, l.window).Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to set window expiry: %w", err)
		}
		left = l.window
	}
	return incr.Val(), left, nil
}
