// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// Repository persists orders. FindByID returns (nil, nil) when absent.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// CartStore is the slice of the cart aggregator checkout needs
type CartStore interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// AnomalyRecorder journals partially applied operations for reconciliation
type AnomalyRecorder interface {
	Record(ctx context.Context, a *Anomaly) error
	List(ctx context.Context, limit int64) ([]Anomaly, error)
}

const anomalyJournalTimeout = 5 * time.Second

// Service handles order business logic
type Service struct {
	orders    Repository
	carts     CartStore
	anomalies AnomalyRecorder
	logger    *logrus.Logger
	now       func() time.Time
}

// NewService creates a new order service
func NewService(orders Repository, carts CartStore, anomalies AnomalyRecorder, logger *logrus.Logger) *Service {
	return &Service{
		orders:    orders,
		carts:     carts,
		anomalies: anomalies,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// UpdateOrderRequest carries the admin-editable order fields. Empty values are ignored.
type UpdateOrderRequest struct {
	PaymentIntentID string      `json:"paymentIntentId"`
	Status          OrderStatus `json:"status"`
}

// CreateOrder materializes the user's cart into an order and clears the cart.
// A failed clear does not fail the checkout; it is logged and journaled.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID) (*Order, error) {
	c, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if c == nil || c.IsEmpty() {
		return nil, apperror.InvalidState("No cart items found")
	}

	o := &Order{
		UserID:       userID,
		Items:        make([]OrderItem, len(c.Items)),
		Subtotal:     c.Total,
		Tax:          Tax,
		ShippingFee:  ShippingFee,
		Total:        c.Total.Add(Tax).Add(ShippingFee),
		Status:       OrderStatusPending,
		ClientSecret: PendingClientSecret,
	}
	for i, line := range c.Items {
		o.Items[i] = OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Amount:    line.Amount,
			Position:  i,
		}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.reportUnclearedCart(ctx, o, err)
	}

	return o, nil
}

// GetSingleOrder returns an order visible to the requester
func (s *Service) GetSingleOrder(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*Order, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !o.IsOwnedBy(requesterID) {
		return nil, apperror.Forbidden("Not authorized to access this order")
	}
	return o, nil
}

// UpdateOrder records a payment and/or a status change
func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest) (*Order, error) {
	o, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	status := OrderStatus(strings.TrimSpace(string(req.Status)))
	if status != "" && !status.IsValid() {
		return nil, apperror.Validation("%q is not a supported order status", status)
	}

	now := s.now()
	if intent := strings.TrimSpace(req.PaymentIntentID); intent != "" {
		o.MarkPaid(intent, now)
	}
	if status != "" {
		o.SetStatus(status, now)
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"status":   o.Status,
		"is_paid":  o.IsPaid,
	}).Info("order updated")

	return o, nil
}

// ListUserOrders returns every order placed by userID
func (s *Service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return nonNil(orders), nil
}

// ListAllOrders returns every order
func (s *Service) ListAllOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return nonNil(orders), nil
}

// ListAnomalies returns the most recent reconciliation records
func (s *Service) ListAnomalies(ctx context.Context, limit int64) ([]Anomaly, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	anomalies, err := s.anomalies.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list anomalies: %w", err)
	}
	if anomalies == nil {
		anomalies = []Anomaly{}
	}
	return anomalies, nil
}

func (s *Service) findOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if o == nil {
		return nil, apperror.NotFound("No order found with id: %s", id)
	}
	return o, nil
}

func (s *Service) reportUnclearedCart(ctx context.Context, o *Order, cause error) {
	entry := s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  o.UserID,
		"anomaly":  AnomalyCartNotCleared,
	})
	entry.WithError(cause).Error("order created but cart was not cleared")

	anomaly := &Anomaly{
		Kind:      AnomalyCartNotCleared,
		OrderID:   o.ID.String(),
		UserID:    o.UserID.String(),
		Detail:    cause.Error(),
		CreatedAt: s.now(),
	}
	// the request context may already be cancelled; that is often why the clear failed
	journalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), anomalyJournalTimeout)
	defer cancel()
	if err := s.anomalies.Record(journalCtx, anomaly); err != nil {
		entry.WithError(err).Error("failed to journal anomaly")
	}
}

func nonNil(orders []Order) []Order {
	if orders == nil {
		return []Order{}
	}
	return orders
}

// NopAnomalyRecorder is used when no journal store is configured; the
// anomaly is still visible in the error log.
type NopAnomalyRecorder struct{}

// Record discards the anomaly
func (NopAnomalyRecorder) Record(context.Context, *Anomaly) error { return nil }

// List always returns nothing
func (NopAnomalyRecorder) List(context.Context, int64) ([]Anomaly, error) { return []Anomaly{}, nil }
