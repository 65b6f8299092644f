// internal/domain/product/repository.go
package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
)

// ListFilter narrows a product listing. Nil bounds are not applied.
type ListFilter struct {
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	CategoryID *uuid.UUID
}

// Repository persists products. Lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	// Delete removes the product together with its reviews
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, filter ListFilter, page pagination.Params) ([]Product, int64, error)
	UpdateRating(ctx context.Context, id uuid.UUID, summary RatingSummary) error
}

// CategoryRepository persists categories
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// ReviewRepository persists reviews
type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Review, error)
	ListWithProduct(ctx context.Context) ([]ReviewWithProduct, error)
	// Summarize aggregates the current reviews of a product
	Summarize(ctx context.Context, productID uuid.UUID) (RatingSummary, error)
}
