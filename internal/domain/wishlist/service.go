// internal/domain/wishlist/service.go
package wishlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// Repository persists wishlist entries
type Repository interface {
	// Add is idempotent per (user, product)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListProducts(ctx context.Context, userID uuid.UUID) ([]product.Product, error)
}

// ProductFinder looks products up by id, returning (nil, nil) when absent
type ProductFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
}

// Service handles wishlist business logic
type Service struct {
	items    Repository
	products ProductFinder
}

// NewService creates a new wishlist service
func NewService(items Repository, products ProductFinder) *Service {
	return &Service{
		items:    items,
		products: products,
	}
}

// AddToWishlistRequest represents add to wishlist request
type AddToWishlistRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
}

// GetWishlist returns the products on a user's wishlist
func (s *Service) GetWishlist(ctx context.Context, userID uuid.UUID) ([]product.Product, error) {
	products, err := s.items.ListProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// AddToWishlist adds a product; adding it twice is a no-op
func (s *Service) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}
	if p == nil {
		return apperror.NotFound("No product with id : %s", productID)
	}

	if err := s.items.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

// RemoveFromWishlist drops a product; removing an absent product succeeds
func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.items.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
