// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is a user's single mutable basket. ItemCount and Total are derived
// from Items and are only ever written by Recalculate.
type Cart struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user"`
	Items     []CartItem      `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	ItemCount int             `gorm:"not null;default:0" json:"itemCount"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// TableName overrides the table name
func (Cart) TableName() string {
	return "carts"
}

// BeforeCreate assigns the id
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem is a line of a cart: a snapshot of the product taken when it was
// first added. Name, Image and Price are never refreshed from the catalog.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product" json:"productId"`
	Name      string          `gorm:"not null;size:100" json:"name"`
	Image     string          `gorm:"size:500" json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Amount    int             `gorm:"not null" json:"amount"`
	Position  int             `gorm:"not null;default:0" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns the id
func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineTotal is price × amount
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// NewEmptyCart returns an unsaved cart view with no lines
func NewEmptyCart(userID uuid.UUID) *Cart {
	return &Cart{
		UserID: userID,
		Items:  []CartItem{},
		Total:  decimal.Zero,
	}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddLine merges item into the cart: an existing line for the same product
// has its amount increased, otherwise item is appended.
func (c *Cart) AddLine(item CartItem) {
	if idx := c.lineIndex(item.ProductID); idx >= 0 {
		c.Items[idx].Amount += item.Amount
	} else {
		c.Items = append(c.Items, item)
	}
	c.Recalculate()
}

// RemoveLine deletes the line for productID; false if there was none
func (c *Cart) RemoveLine(productID uuid.UUID) bool {
	idx := c.lineIndex(productID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.Recalculate()
	return true
}

// SetAmount sets an absolute amount; amount <= 0 removes the line.
// Returns false if there is no line for productID.
func (c *Cart) SetAmount(productID uuid.UUID, amount int) bool {
	idx := c.lineIndex(productID)
	if idx < 0 {
		return false
	}
	if amount <= 0 {
		return c.RemoveLine(productID)
	}
	c.Items[idx].Amount = amount
	c.Recalculate()
	return true
}

// Clear drops every line and zeroes the totals
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// Recalculate rebuilds ItemCount and Total by a full scan of the lines
func (c *Cart) Recalculate() {
	count := 0
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].Position = i
		count += c.Items[i].Amount
		total = total.Add(c.Items[i].LineTotal())
	}
	c.ItemCount = count
	c.Total = total
}

func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
