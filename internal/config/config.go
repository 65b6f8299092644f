// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"Storefront API"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	Debug       bool   `env:"APP_DEBUG" envDefault:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string        `env:"APP_PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"30s"`
	MaxBodyBytes   int64         `env:"SERVER_MAX_BODY_BYTES" envDefault:"1048576"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	Name         string        `env:"DB_NAME" envDefault:"storefront"`
	User         string        `env:"DB_USER" envDefault:"storefront"`
	Password     string        `env:"DB_PASSWORD" envDefault:"storefront"`
	SSLMode      string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
	LogQueries   bool          `env:"DB_LOG_QUERIES" envDefault:"false"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string `env:"REDIS_HOST" envDefault:"localhost"`
	Port         string `env:"REDIS_PORT" envDefault:"6379"`
	Password     string `env:"REDIS_PASSWORD"`
	DB           int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"5"`
}

// MongoConfig configures the order anomaly journal. An empty URI disables it.
type MongoConfig struct {
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DATABASE" envDefault:"storefront"`
	Collection string `env:"MONGO_ANOMALY_COLLECTION" envDefault:"order_anomalies"`
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret             string        `env:"JWT_SECRET" envDefault:"your-super-secret-jwt-key-change-in-production"`
	AccessTokenExpiry  time.Duration `env:"JWT_ACCESS_EXPIRE" envDefault:"24h"`
	RefreshTokenExpiry time.Duration `env:"JWT_REFRESH_EXPIRE" envDefault:"168h"`
	CookieSecure       bool          `env:"JWT_COOKIE_SECURE" envDefault:"false"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int      `env:"BCRYPT_COST" envDefault:"12"`
	MinPasswordLength  int      `env:"MIN_PASSWORD_LENGTH" envDefault:"6"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	CORSAllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	CORSAllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Origin,Content-Type,Accept,Authorization"`
	TrustedProxies     []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"debug"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return Parse()
}

// Parse builds the configuration from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Security.MinPasswordLength < 1 {
		return fmt.Errorf("MIN_PASSWORD_LENGTH must be positive")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// MongoEnabled reports whether the anomaly journal should be backed by MongoDB
func (c *Config) MongoEnabled() bool {
	return c.Mongo.URI != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
