// internal/domain/product/category_service.go
package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
)

// CategoryService handles category business logic
type CategoryService struct {
	categories CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryRequest is the body of category create and update
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory creates a category owned by userID
func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, req *CategoryRequest) (*Category, error) {
	name, err := s.checkName(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	c := &Category{Name: name, UserID: userID}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// GetCategory returns a single category
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if c == nil {
		return nil, apperror.NotFound("Category not found with id of %s", id)
	}
	return c, nil
}

// ListCategories returns every category
func (s *CategoryService) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *CategoryRequest) (*Category, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.checkName(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}
	c.Name = name

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes an empty category
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if count > 0 {
		return apperror.InvalidState("Category still has %d products", count)
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// checkName trims and validates a name, rejecting duplicates other than self
func (s *CategoryService) checkName(ctx context.Context, raw string, self uuid.UUID) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperror.Validation("Please provide category name")
	}
	if len(name) > MaxCategoryNameLength {
		return "", apperror.Validation("Name can not be more than %d characters", MaxCategoryNameLength)
	}

	existing, err := s.categories.FindByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil && existing.ID != self {
		return "", apperror.Validation("Category %q already exists", name)
	}
	return name, nil
}
