// internal/infrastructure/database/postgres/category_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/product"
	"gorm.io/gorm"
)

// CategoryRepository persists categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *product.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *product.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&product.Category{}, "id = ?", id).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Category, error) {
	var c product.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*product.Category, error) {
	var c product.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

// List returns categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]product.Category, error) {
	var categories []product.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CountProducts counts the products filed under id
func (r *CategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&product.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, err
}
