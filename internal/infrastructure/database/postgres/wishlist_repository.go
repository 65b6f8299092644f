// internal/infrastructure/database/postgres/wishlist_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/wishlist"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository persists wishlist entries
type WishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add inserts the entry, ignoring duplicates
func (r *WishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	item := wishlist.WishlistItem{UserID: userID, ProductID: productID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&wishlist.WishlistItem{}).Error
}

// ListProducts returns the wishlisted products, most recently added first
func (r *WishlistRepository) ListProducts(ctx context.Context, userID uuid.UUID) ([]product.Product, error) {
	var products []product.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN wishlist_items wi ON wi.product_id = products.id").
		Where("wi.user_id = ?", userID).
		Order("wi.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return products, nil
}
