// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *user.Service
	jwtManager  *auth.JWTManager
	config      *config.Config
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, jwtManager *auth.JWTManager, cfg *config.Config, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtManager:  jwtManager,
		config:      cfg,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.sendTokens(c, http.StatusCreated, response)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.sendTokens(c, http.StatusOK, response)
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.sendTokens(c, http.StatusOK, response)
}

// Logout handles GET /auth/logout. It always clears the cookie; a valid
// presented token is also revoked.
func (h *AuthHandler) Logout(c *gin.Context) {
	if tokenString := middleware.TokenFromRequest(c); tokenString != "" {
		if claims, err := h.jwtManager.ValidateAccessToken(tokenString); err == nil {
			if err := h.userService.Logout(c.Request.Context(), claims); err != nil {
				respondError(c, h.logger, err)
				return
			}
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.config.JWT.CookieSecure, true)

	respond(c, http.StatusOK, gin.H{})
}

// GetMe handles GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, _ := currentUser(c)

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, profile)
}

func (h *AuthHandler) sendTokens(c *gin.Context, status int, response *user.AuthResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, response.Token, int(response.ExpiresIn), "/", "", h.config.JWT.CookieSecure, true)

	c.JSON(status, gin.H{
		"success":      true,
		"token":        response.Token,
		"refreshToken": response.RefreshToken,
		"expiresIn":    response.ExpiresIn,
		"data":         response.User,
	})
}
