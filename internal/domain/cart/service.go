// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// Repository persists carts. FindByUser returns (nil, nil) when the user has
// no cart; lines come back in insertion order.
type Repository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Create(ctx context.Context, c *Cart) error
	// Save replaces the stored lines and totals with those of c
	Save(ctx context.Context, c *Cart) error
}

// ProductFinder looks products up by id, returning (nil, nil) when absent
type ProductFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
}

// Service handles cart business logic
type Service struct {
	carts    Repository
	products ProductFinder
}

// NewService creates a new cart service
func NewService(carts Repository, products ProductFinder) *Service {
	return &Service{
		carts:    carts,
		products: products,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Amount    int       `json:"amount" binding:"required"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

// GetCart returns the user's cart, or an empty view when none exists yet.
// It never creates a cart.
func (s *Service) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil {
		return NewEmptyCart(userID), nil
	}
	return c, nil
}

// AddItem snapshots the product into the user's cart, creating the cart on
// first use and accumulating the amount when the product is already present.
func (s *Service) AddItem(ctx context.Context, userID, productID uuid.UUID, amount int) (*Cart, error) {
	if amount <= 0 {
		return nil, apperror.Validation("Amount must be greater than zero")
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if p == nil {
		return nil, apperror.NotFound("No product with id : %s", productID)
	}

	line := CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.PrimaryImage(),
		Price:     p.Price,
		Amount:    amount,
	}

	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if c == nil {
		c = NewEmptyCart(userID)
		c.AddLine(line)
		if err := s.carts.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return c, nil
	}

	c.AddLine(line)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// RemoveItem deletes the line for productID
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	c, err := s.existingCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !c.RemoveLine(productID) {
		return nil, apperror.NotFound("Item not found in cart")
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// UpdateItemAmount sets the line's amount; zero or less removes the line
func (s *Service) UpdateItemAmount(ctx context.Context, userID, productID uuid.UUID, amount int) (*Cart, error) {
	c, err := s.existingCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !c.SetAmount(productID, amount) {
		return nil, apperror.NotFound("Item not found in cart")
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// Clear empties the user's cart; it is a no-op when there is no cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil {
		return nil
	}

	c.Clear()
	if err := s.carts.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Service) existingCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if c == nil {
		return nil, apperror.NotFound("Cart not found")
	}
	return c, nil
}
