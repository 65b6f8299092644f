// internal/infrastructure/database/redis/token_denylist.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:revoked:"

// TokenDenylist stores revoked token ids until their natural expiry
type TokenDenylist struct {
	rdb redis.UniversalClient
}

// NewTokenDenylist creates a new token denylist
func NewTokenDenylist(rdb redis.UniversalClient) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

// Revoke marks tokenID revoked for ttl. A non-positive ttl is a no-op since
// the token has already expired.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, denylistPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}
