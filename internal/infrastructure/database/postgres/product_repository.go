// internal/infrastructure/database/postgres/product_repository.go
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/wishlist"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository persists products
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// Update writes every column of p
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

// Delete removes the product and its reviews in one transaction
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&product.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&wishlist.WishlistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete wishlist entries: %w", err)
		}
		return tx.Delete(&product.Product{}, "id = ?", id).Error
	})
}

// FindByID returns the product or (nil, nil)
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}

// List returns one page of products matching filter, newest first
func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter, page pagination.Params) ([]product.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&product.Product{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(filter.Search)+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []product.Product
	err := query.Order("created_at DESC").Order("id").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// UpdateRating writes the aggregated review figures
func (r *ProductRepository) UpdateRating(ctx context.Context, id uuid.UUID, summary product.RatingSummary) error {
	return r.db.WithContext(ctx).Model(&product.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"average_rating": summary.AverageRating,
		"num_of_reviews": summary.NumOfReviews,
	}).Error
}

// escapeLike escapes LIKE wildcards so the search matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
