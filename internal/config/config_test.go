package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiry)
	assert.Contains(t, cfg.Security.CORSAllowedMethods, "PATCH")
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.MongoEnabled())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com,https://admin.example.com")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.MongoEnabled())
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Security.CORSAllowedOrigins)
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db.internal port=6543")
	assert.Contains(t, cfg.GetDatabaseDSN(), "TimeZone=UTC")
}

func TestParse_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	cfg.Database.Name = ""
	assert.EqualError(t, cfg.Validate(), "DB_NAME is required")

	cfg.Database.Name = "storefront"
	cfg.Redis.Host = ""
	assert.EqualError(t, cfg.Validate(), "REDIS_HOST is required")
}
