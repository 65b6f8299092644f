// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// GetProducts handles GET /products?search=&minPrice=&maxPrice=&category=&page=&limit=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := product.ListFilter{Search: c.Query("search")}

	var ok bool
	if filter.MinPrice, ok = decimalQuery(c, "minPrice"); !ok {
		return
	}
	if filter.MaxPrice, ok = decimalQuery(c, "maxPrice"); !ok {
		return
	}
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badQuery(c, "category")
			return
		}
		filter.CategoryID = &id
	}

	page := pagination.Parse(c.Query("page"), c.Query("limit"))
	result, err := h.productService.ListProducts(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondPage(c, len(result.Products), result.Total, result.Pagination, result.Products)
}

// GetProductsByCategory handles GET /products/category/:id
func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	categoryID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	page := pagination.Parse(c.Query("page"), c.Query("limit"))
	result, err := h.productService.ListByCategory(c.Request.Context(), categoryID, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respondPage(c, len(result.Products), result.Total, result.Pagination, result.Products)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	p, err := h.productService.CreateProduct(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, p)
}

// UpdateProduct handles PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req product.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

// decimalQuery parses an optional decimal query parameter
func decimalQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		badQuery(c, name)
		return nil, false
	}
	return &d, true
}

func badQuery(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid value for " + name,
	})
}
