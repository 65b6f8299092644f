// internal/interfaces/http/handlers/user.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/user"
)

// UserHandler serves the admin user listing
type UserHandler struct {
	userService *user.Service
	logger      *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *user.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// GetUsers handles GET /users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(users), users)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	u, err := h.userService.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, u)
}
