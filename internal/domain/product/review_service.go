// internal/domain/product/review_service.go
package product

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// ReviewService handles review business logic
type ReviewService struct {
	reviews  ReviewRepository
	products Repository
}

// NewReviewService creates a new review service
func NewReviewService(reviews ReviewRepository, products Repository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
	}
}

// CreateReviewRequest represents review creation request
type CreateReviewRequest struct {
	Product uuid.UUID `json:"product" binding:"required"`
	Rating  int       `json:"rating" binding:"required"`
	Title   string    `json:"title" binding:"required"`
	Comment string    `json:"comment" binding:"required"`
}

// UpdateReviewRequest replaces the editable fields of a review
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// CreateReview records userID's review of a product
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *CreateReviewRequest) (*Review, error) {
	p, err := s.products.FindByID(ctx, req.Product)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if p == nil {
		return nil, apperror.NotFound("No product with id : %s", req.Product)
	}

	existing, err := s.reviews.FindByUserAndProduct(ctx, userID, req.Product)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, apperror.Validation("Already submitted review for this product")
	}

	r := &Review{
		Rating:    req.Rating,
		Title:     strings.TrimSpace(req.Title),
		Comment:   strings.TrimSpace(req.Comment),
		ProductID: req.Product,
		UserID:    userID,
	}
	if err := validateReview(r); err != nil {
		return nil, err
	}

	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if err := s.refreshRating(ctx, r.ProductID); err != nil {
		return nil, err
	}

	return r, nil
}

// GetReview returns a single review
func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	if r == nil {
		return nil, apperror.NotFound("No review with id %s", id)
	}
	return r, nil
}

// ListReviews returns every review with its product summary
func (s *ReviewService) ListReviews(ctx context.Context) ([]ReviewWithProduct, error) {
	reviews, err := s.reviews.ListWithProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// UpdateReview edits a review owned by the requester, or any review for admins
func (s *ReviewService) UpdateReview(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool, req *UpdateReviewRequest) (*Review, error) {
	r, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && r.UserID != requesterID {
		return nil, apperror.Forbidden("Not authorized to update this review")
	}

	r.Rating = req.Rating
	r.Title = strings.TrimSpace(req.Title)
	r.Comment = strings.TrimSpace(req.Comment)
	if err := validateReview(r); err != nil {
		return nil, err
	}

	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if err := s.refreshRating(ctx, r.ProductID); err != nil {
		return nil, err
	}

	return r, nil
}

// DeleteReview removes a review owned by the requester, or any review for admins
func (s *ReviewService) DeleteReview(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) error {
	r, err := s.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && r.UserID != requesterID {
		return apperror.Forbidden("Not authorized to delete this review")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return s.refreshRating(ctx, r.ProductID)
}

// refreshRating recomputes averageRating and numOfReviews from stored reviews
func (s *ReviewService) refreshRating(ctx context.Context, productID uuid.UUID) error {
	summary, err := s.reviews.Summarize(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to summarize reviews: %w", err)
	}
	summary.AverageRating = math.Round(summary.AverageRating*100) / 100

	if err := s.products.UpdateRating(ctx, productID, summary); err != nil {
		return fmt.Errorf("failed to update product rating: %w", err)
	}
	return nil
}

func validateReview(r *Review) error {
	switch {
	case r.Rating < 1 || r.Rating > 5:
		return apperror.Validation("Rating must be between 1 and 5")
	case r.Title == "":
		return apperror.Validation("Please provide review title")
	case len(r.Title) > MaxReviewTitleLength:
		return apperror.Validation("Title can not be more than %d characters", MaxReviewTitleLength)
	case r.Comment == "":
		return apperror.Validation("Please provide review text")
	}
	return nil
}
