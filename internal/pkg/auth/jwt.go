// internal/pkg/auth/jwt.go
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims represents the JWT claims
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Subject identifies who a token is issued for
type Subject struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   string
}

// JWTManager handles JWT operations
type JWTManager struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret:        []byte(cfg.JWT.Secret),
		issuer:        cfg.App.Name,
		accessExpiry:  cfg.JWT.AccessTokenExpiry,
		refreshExpiry: cfg.JWT.RefreshTokenExpiry,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// AccessTokenExpiry is the lifetime of issued access tokens
func (j *JWTManager) AccessTokenExpiry() time.Duration {
	return j.accessExpiry
}

// GenerateAccessToken generates a new access token
func (j *JWTManager) GenerateAccessToken(sub Subject) (string, error) {
	return j.sign(sub, TokenTypeAccess, j.accessExpiry)
}

// GenerateRefreshToken generates a new refresh token. The role is not embedded
// and is re-read from the store on refresh.
func (j *JWTManager) GenerateRefreshToken(sub Subject) (string, error) {
	sub.Role = ""
	return j.sign(sub, TokenTypeRefresh, j.refreshExpiry)
}

func (j *JWTManager) sign(sub Subject, tokenType string, ttl time.Duration) (string, error) {
	now := j.now()

	claims := &Claims{
		UserID:    sub.UserID,
		Name:      sub.Name,
		Email:     sub.Email,
		Role:      sub.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   "user:" + sub.UserID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateToken validates and parses a JWT token
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType == "" {
		return nil, fmt.Errorf("token type not specified")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token has no user")
	}

	return claims, nil
}

// ValidateAccessToken validates an access token specifically
func (j *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token specifically
func (j *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validateType(tokenString, TokenTypeRefresh)
}

func (j *JWTManager) validateType(tokenString, want string) (*Claims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", want, claims.TokenType)
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}
	return ""
}
