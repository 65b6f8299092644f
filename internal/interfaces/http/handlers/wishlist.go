// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/wishlist"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
	logger          *logrus.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *wishlist.Service, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, logger: logger}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, _ := currentUser(c)

	products, err := h.wishlistService.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(products), products)
}

// AddToWishlist handles POST /wishlist
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req wishlist.AddToWishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	if err := h.wishlistService.AddToWishlist(c.Request.Context(), userID, req.ProductID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.GetWishlist(c)
}

// RemoveFromWishlist handles DELETE /wishlist/:productId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := uuidParam(c, "productId")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	if err := h.wishlistService.RemoveFromWishlist(c.Request.Context(), userID, productID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}
