// internal/domain/user/service.go
package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

// Service handles user business logic
type Service struct {
	users           Repository
	denylist        TokenDenylist
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          *logrus.Logger
}

// NewService creates a new user service
func NewService(users Repository, denylist TokenDenylist, passwords *auth.PasswordManager, tokens *auth.JWTManager, logger *logrus.Logger) *Service {
	return &Service{
		users:           users,
		denylist:        denylist,
		passwordManager: passwords,
		jwtManager:      tokens,
		logger:          logger,
	}
}

// RegisterRequest represents user registration data. Any role in the body is ignored.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"data"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Register creates a new ordinary user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("Please add a name")
	}
	if len(name) > 50 {
		return nil, apperror.Validation("Name can not be more than 50 characters")
	}

	email := NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Validation("Please add a valid email")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperror.Validation("User already exists")
	}

	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")

	return s.issueTokens(u)
}

// Login authenticates a user by email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperror.Validation("Please provide an email and password")
	}

	u, err := s.users.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, apperror.Unauthenticated("Invalid credentials")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, apperror.Unauthenticated("Invalid credentials")
	}

	return s.issueTokens(u)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Unauthenticated("Invalid refresh token")
	}

	if revoked, err := s.denylist.IsRevoked(ctx, claims.ID); err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	} else if revoked {
		return nil, apperror.Unauthenticated("Invalid refresh token")
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, apperror.Unauthenticated("Invalid refresh token")
	}

	// one-shot: the presented refresh token cannot be replayed
	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}

	return s.issueTokens(u)
}

// Logout revokes the presented access token for the rest of its lifetime
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	return s.revoke(ctx, claims)
}

// IsTokenRevoked reports whether a token id has been logged out
func (s *Service) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.denylist.IsRevoked(ctx, tokenID)
}

// GetProfile returns the user behind an authenticated request
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, apperror.NotFound("No user with id : %s", userID)
	}
	return u, nil
}

// ListUsers returns every account with the ordinary user role
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.users.ListByRole(ctx, RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) revoke(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	sub := auth.Subject{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}

	accessToken, err := s.jwtManager.GenerateAccessToken(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         u,
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}
