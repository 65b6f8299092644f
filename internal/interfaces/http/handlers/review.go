// internal/interfaces/http/handlers/review.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/product"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *product.ReviewService
	logger        *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *product.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, logger: logger}
}

// GetReviews handles GET /reviews
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondList(c, len(reviews), reviews)
}

// GetReview handles GET /reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, review)
}

// CreateReview handles POST /reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req product.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	review, err := h.reviewService.CreateReview(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, review)
}

// UpdateReview handles PATCH /reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req product.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, isAdmin := currentUser(c)
	review, err := h.reviewService.UpdateReview(c.Request.Context(), id, userID, isAdmin, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, review)
}

// DeleteReview handles DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	userID, isAdmin := currentUser(c)
	if err := h.reviewService.DeleteReview(c.Request.Context(), id, userID, isAdmin); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}
