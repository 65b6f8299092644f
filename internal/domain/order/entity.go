// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusFailed     OrderStatus = "failed"
)

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

// PendingClientSecret is stored until a payment provider is wired in
const PendingClientSecret = "pending"

var (
	// Tax is a flat amount added to every order. It is not a rate: a 500
	// subtotal pays 0.1 in tax.
	Tax = decimal.RequireFromString("0.1")
	// ShippingFee is a flat amount added to every order
	ShippingFee = decimal.NewFromInt(200)
)

// Order is an immutable snapshot of a cart at checkout. Only the payment and
// fulfillment fields change after creation.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"orderItems"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	ShippingFee     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shippingFee"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	IsPaid          bool            `gorm:"not null;default:false;index" json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false" json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	Status          OrderStatus     `gorm:"not null;size:20;default:'pending';index" json:"status"`
	PaymentIntentID string          `gorm:"size:255" json:"paymentIntentId,omitempty"`
	ClientSecret    string          `gorm:"size:255" json:"clientSecret"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the id
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a by-value copy of a cart line
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Name      string          `gorm:"not null;size:100" json:"name"`
	Image     string          `gorm:"size:500" json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Amount    int             `gorm:"not null" json:"amount"`
	Position  int             `gorm:"not null;default:0" json:"-"`
}

// TableName overrides the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// BeforeCreate assigns the id
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy checks if the order belongs to userID
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// MarkPaid records a payment reference
func (o *Order) MarkPaid(paymentIntentID string, at time.Time) {
	o.PaymentIntentID = paymentIntentID
	o.IsPaid = true
	o.PaidAt = &at
}

// SetStatus changes the status; delivered also stamps the delivery fields
func (o *Order) SetStatus(status OrderStatus, at time.Time) {
	o.Status = status
	if status == OrderStatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &at
	}
}

// Anomaly is a reconciliation record for a partially applied operation
type Anomaly struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnomalyCartNotCleared marks an order whose cart could not be emptied
const AnomalyCartNotCleared = "cart_not_cleared"
