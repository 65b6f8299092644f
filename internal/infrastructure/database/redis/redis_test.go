package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, Ping(context.Background(), rdb))
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestTokenDenylist(t *testing.T) {
	rdb := openTestRedis(t)
	denylist := NewTokenDenylist(rdb)
	ctx := context.Background()
	id := uuid.NewString()

	revoked, err := denylist.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, id, time.Minute))
	revoked, err = denylist.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, denylistPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	expired := uuid.NewString()
	require.NoError(t, denylist.Revoke(ctx, expired, 0))
	revoked, err = denylist.IsRevoked(ctx, expired)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRateLimiter_Hit(t *testing.T) {
	rdb := openTestRedis(t)
	limiter := NewRateLimiter(rdb, time.Minute)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { rdb.Del(context.Background(), rateLimitPrefix+key) })

	for want := int64(1); want <= 3; want++ {
		count, reset, err := limiter.Hit(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.LessOrEqual(t, reset, time.Minute)
		assert.Greater(t, reset, time.Duration(0))
	}
}
