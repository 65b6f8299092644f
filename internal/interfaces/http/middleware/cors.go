// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-api/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.CORSAllowedMethods,
		AllowHeaders:     cfg.CORSAllowedHeaders,
		ExposeHeaders:    []string{HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}

	origins := cfg.CORSAllowedOrigins
	corsConfig.AllowOriginFunc = func(origin string) bool {
		return isOriginAllowed(origin, origins)
	}

	return cors.New(corsConfig)
}

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
		// *.example.com matches any subdomain
		if strings.HasPrefix(allowed, "*.") {
			domain := strings.TrimPrefix(allowed, "*")
			if strings.HasSuffix(origin, domain) {
				return true
			}
		}
	}
	return false
}
