// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem represents a wishlist item
type WishlistItem struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"product"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
