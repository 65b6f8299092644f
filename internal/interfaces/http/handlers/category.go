// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/product"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *product.CategoryService
	logger          *logrus.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *product.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, logger: logger}
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(categories), categories)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, category)
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req product.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	category, err := h.categoryService.CreateCategory(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, category)
}

// UpdateCategory handles PATCH /categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req product.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}
