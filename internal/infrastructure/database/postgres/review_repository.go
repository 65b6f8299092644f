// internal/infrastructure/database/postgres/review_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/product"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository persists reviews
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *product.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *ReviewRepository) Update(ctx context.Context, review *product.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&product.Review{}, "id = ?", id).Error
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Review, error) {
	var review product.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &review, nil
}

func (r *ReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*product.Review, error) {
	var review product.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &review, nil
}

// ListWithProduct returns every review joined to its product summary
func (r *ReviewRepository) ListWithProduct(ctx context.Context) ([]product.ReviewWithProduct, error) {
	var reviews []product.Review
	if err := r.db.WithContext(ctx).Preload("Product").Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	out := make([]product.ReviewWithProduct, 0, len(reviews))
	for _, review := range reviews {
		row := product.ReviewWithProduct{Review: review}
		if p := review.Product; p != nil {
			row.ProductInfo = &product.ProductSummary{
				ID:      p.ID,
				Name:    p.Name,
				Company: p.Company,
				Price:   p.Price,
			}
		}
		row.Review.Product = nil
		out = append(out, row)
	}
	return out, nil
}

// Summarize averages the ratings of a product's reviews
func (r *ReviewRepository) Summarize(ctx context.Context, productID uuid.UUID) (product.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := r.db.WithContext(ctx).Model(&product.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return product.RatingSummary{}, err
	}
	return product.RatingSummary{AverageRating: row.Average, NumOfReviews: row.Count}, nil
}
