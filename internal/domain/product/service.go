// internal/domain/product/service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
)

// Service handles product business logic
type Service struct {
	products   Repository
	categories CategoryRepository
}

// NewService creates a new product service
func NewService(products Repository, categories CategoryRepository) *Service {
	return &Service{
		products:   products,
		categories: categories,
	}
}

// CreateProductRequest represents product creation request
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description" binding:"required"`
	Images       []string        `json:"images"`
	Category     uuid.UUID       `json:"category" binding:"required"`
	Company      Company         `json:"company" binding:"required"`
	Colors       []string        `json:"colors"`
	Featured     bool            `json:"featured"`
	FreeShipping bool            `json:"freeShipping"`
	Inventory    *int            `json:"inventory"`
}

// UpdateProductRequest represents a partial product update; nil fields are kept
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description"`
	Images       []string         `json:"images"`
	Category     *uuid.UUID       `json:"category"`
	Company      *Company         `json:"company"`
	Colors       []string         `json:"colors"`
	Featured     *bool            `json:"featured"`
	FreeShipping *bool            `json:"freeShipping"`
	Inventory    *int             `json:"inventory"`
}

// ListResult is one page of products
type ListResult struct {
	Products   []Product        `json:"products"`
	Total      int64            `json:"total"`
	Pagination pagination.Links `json:"pagination"`
}

// CreateProduct creates a product owned by userID
func (s *Service) CreateProduct(ctx context.Context, userID uuid.UUID, req *CreateProductRequest) (*Product, error) {
	p := &Product{
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		Description:  req.Description,
		Images:       pq.StringArray(req.Images),
		CategoryID:   req.Category,
		Company:      req.Company,
		Colors:       pq.StringArray(req.Colors),
		Featured:     req.Featured,
		FreeShipping: req.FreeShipping,
		Inventory:    DefaultInventory,
		UserID:       userID,
	}
	if req.Inventory != nil {
		p.Inventory = *req.Inventory
	}
	p.ApplyDefaults()

	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

// GetProduct returns a single product
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if p == nil {
		return nil, apperror.NotFound("Product not found with id of %s", id)
	}
	return p, nil
}

// UpdateProduct applies a partial update
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Images != nil {
		p.Images = pq.StringArray(req.Images)
	}
	if req.Company != nil {
		p.Company = *req.Company
	}
	if req.Colors != nil {
		p.Colors = pq.StringArray(req.Colors)
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.FreeShipping != nil {
		p.FreeShipping = *req.FreeShipping
	}
	if req.Inventory != nil {
		p.Inventory = *req.Inventory
	}
	if req.Category != nil && *req.Category != p.CategoryID {
		if err := s.ensureCategory(ctx, *req.Category); err != nil {
			return nil, err
		}
		p.CategoryID = *req.Category
	}
	p.ApplyDefaults()

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return p, nil
}

// DeleteProduct removes a product and its reviews
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ListProducts returns a filtered page of products
func (s *Service) ListProducts(ctx context.Context, filter ListFilter, page pagination.Params) (*ListResult, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, apperror.Validation("minPrice cannot be greater than maxPrice")
	}
	filter.Search = strings.TrimSpace(filter.Search)

	products, total, err := s.products.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ListResult{
		Products:   products,
		Total:      total,
		Pagination: page.Links(total),
	}, nil
}

// ListByCategory returns a page of the products in one category
func (s *Service) ListByCategory(ctx context.Context, categoryID uuid.UUID, page pagination.Params) (*ListResult, error) {
	return s.ListProducts(ctx, ListFilter{CategoryID: &categoryID}, page)
}

func (s *Service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	if c == nil {
		return apperror.NotFound("Category not found with id of %s", id)
	}
	return nil
}

func validateProduct(p *Product) error {
	switch {
	case p.Name == "":
		return apperror.Validation("Please provide product name")
	case len(p.Name) > MaxNameLength:
		return apperror.Validation("Name can not be more than %d characters", MaxNameLength)
	case p.Price.IsNegative():
		return apperror.Validation("Price can not be negative")
	case strings.TrimSpace(p.Description) == "":
		return apperror.Validation("Please provide product description")
	case len(p.Description) > MaxDescriptionLength:
		return apperror.Validation("Description can not be more than %d characters", MaxDescriptionLength)
	case p.CategoryID == uuid.Nil:
		return apperror.Validation("Please provide product category")
	case !p.Company.Valid():
		return apperror.Validation("%q is not a supported company", p.Company)
	case p.Inventory < 0:
		return apperror.Validation("Inventory can not be negative")
	}
	return nil
}
