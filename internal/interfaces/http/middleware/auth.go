// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextClaims = "token_claims"

	// TokenCookie is the cookie login sets alongside the bearer token
	TokenCookie = "token"
)

// RevocationChecker reports whether a token id has been logged out
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticator builds the authentication middlewares
type Authenticator struct {
	jwt     *auth.JWTManager
	revoked RevocationChecker
	logger  *logrus.Logger
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(jwt *auth.JWTManager, revoked RevocationChecker, logger *logrus.Logger) *Authenticator {
	return &Authenticator{
		jwt:     jwt,
		revoked: revoked,
		logger:  logger,
	}
}

// RequireAuth rejects requests without a valid, unrevoked access token
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		claims, err := a.jwt.ValidateAccessToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		revoked, err := a.revoked.IsTokenRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			a.logger.WithError(err).WithField("request_id", c.GetString(ContextRequestID)).
				Error("token revocation check failed")
			abort(c, http.StatusInternalServerError, "Something went wrong, try again later")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// RequireAdmin must run after RequireAuth
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		if !claims.IsAdmin() {
			abort(c, http.StatusForbidden, "Not authorized to access this route")
			return
		}
		c.Next()
	}
}

// TokenFromRequest reads the bearer header, falling back to the token cookie
func TokenFromRequest(c *gin.Context) string {
	if token := auth.ExtractTokenFromHeader(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// ClaimsFromContext returns the claims of an authenticated request
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// IsAdminFromContext checks if user is admin from gin context
func IsAdminFromContext(c *gin.Context) bool {
	return c.GetString(ContextRole) == auth.RoleAdmin
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
