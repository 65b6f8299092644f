// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	logger      *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := currentUser(c)

	userCart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, userCart)
}

// AddToCart handles POST /cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	userCart, err := h.cartService.AddItem(c.Request.Context(), userID, req.ProductID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, userCart)
}

// UpdateCartItem handles PATCH /cart/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	var req cart.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	userCart, err := h.cartService.UpdateItemAmount(c.Request.Context(), userID, productID, *req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, userCart)
}

// RemoveFromCart handles DELETE /cart/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	userCart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, userCart)
}
