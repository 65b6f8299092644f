// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/analytics"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/domain/wishlist"
	"github.com/your-org/storefront-api/internal/infrastructure/database/postgres"
	redisstore "github.com/your-org/storefront-api/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-api/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/interfaces/http/routes"
	"github.com/your-org/storefront-api/internal/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	// money renders as a JSON number
	decimal.MarshalJSONWithoutQuotes = true
}

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *logrus.Logger
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	anomalies   order.AnomalyRecorder
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance. A nil anomalies recorder
// disables the order anomaly journal.
func NewServer(cfg *config.Config, logger *logrus.Logger, db *gorm.DB, redisClient *redis.Client, anomalies order.AnomalyRecorder) *Server {
	if anomalies == nil {
		anomalies = order.NopAnomalyRecorder{}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		anomalies:   anomalies,
		startedAt:   time.Now(),
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(
		redisstore.NewRateLimiter(s.redisClient, time.Minute),
		s.config.Security.RateLimitPerMinute,
		s.logger,
	))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes wires repositories, services and handlers onto the router
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	jwtManager := auth.NewJWTManager(s.config)
	passwordManager := auth.NewPasswordManager(s.config)

	productRepo := postgres.NewProductRepository(s.db)
	categoryRepo := postgres.NewCategoryRepository(s.db)

	userService := user.NewService(
		postgres.NewUserRepository(s.db),
		redisstore.NewTokenDenylist(s.redisClient),
		passwordManager,
		jwtManager,
		s.logger,
	)
	productService := product.NewService(productRepo, categoryRepo)
	categoryService := product.NewCategoryService(categoryRepo)
	reviewService := product.NewReviewService(postgres.NewReviewRepository(s.db), productRepo)
	wishlistService := wishlist.NewService(postgres.NewWishlistRepository(s.db), productRepo)
	cartService := cart.NewService(postgres.NewCartRepository(s.db), productRepo)
	orderService := order.NewService(postgres.NewOrderRepository(s.db), cartService, s.anomalies, s.logger)
	analyticsService := analytics.NewService(postgres.NewAnalyticsRepository(s.db), s.logger)

	h := &routes.Handlers{
		Auth:      handlers.NewAuthHandler(userService, jwtManager, s.config, s.logger),
		User:      handlers.NewUserHandler(userService, s.logger),
		Product:   handlers.NewProductHandler(productService, s.logger),
		Category:  handlers.NewCategoryHandler(categoryService, s.logger),
		Review:    handlers.NewReviewHandler(reviewService, s.logger),
		Wishlist:  handlers.NewWishlistHandler(wishlistService, s.logger),
		Cart:      handlers.NewCartHandler(cartService, s.logger),
		Order:     handlers.NewOrderHandler(orderService, s.logger),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, orderService, s.logger),
	}

	authn := middleware.NewAuthenticator(jwtManager, userService, s.logger)
	routes.SetupRoutes(s.gin.Group("/api/v1"), h, authn)

	s.gin.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route does not exist",
		})
	})
}

// healthCheck reports liveness of the backing stores
func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := postgres.Ping(ctx, s.db); err != nil {
		s.logger.WithError(err).Warn("database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	if err := redisstore.Ping(ctx, s.redisClient); err != nil {
		s.logger.WithError(err).Warn("redis health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports that the router is serving
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
