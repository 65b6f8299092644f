// internal/infrastructure/database/postgres/cart_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"gorm.io/gorm"
)

// CartRepository persists carts with their lines
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByUser returns the user's cart with lines in insertion order, or (nil, nil)
func (r *CartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", userID).
		First(&c).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

// Create inserts the cart and its lines
func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Save replaces the stored lines and totals with those of c
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart lines: %w", err)
		}

		for i := range c.Items {
			c.Items[i].ID = uuid.Nil
			c.Items[i].CartID = c.ID
		}
		if len(c.Items) > 0 {
			if err := tx.Create(&c.Items).Error; err != nil {
				return fmt.Errorf("failed to write cart lines: %w", err)
			}
		}

		return tx.Model(&cart.Cart{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
			"item_count": c.ItemCount,
			"total":      c.Total,
		}).Error
	})
}
