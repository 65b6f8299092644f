// internal/infrastructure/database/postgres/order_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/order"
	"gorm.io/gorm"
)

// OrderRepository persists orders with their line snapshots
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// Create inserts the order and its lines in one transaction
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// Update writes the mutable payment and fulfillment fields only
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Model(&order.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"is_paid":           o.IsPaid,
		"paid_at":           o.PaidAt,
		"is_delivered":      o.IsDelivered,
		"delivered_at":      o.DeliveredAt,
		"status":            o.Status,
		"payment_intent_id": o.PaymentIntentID,
	}).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	var orders []order.Order
	err := r.db.WithContext(ctx).Preload("Items", orderedItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
