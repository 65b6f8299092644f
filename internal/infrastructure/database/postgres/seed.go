// internal/infrastructure/database/postgres/seed.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"gorm.io/gorm"
)

// Demo catalog identifiers
const (
	SeedAdminEmail    = "admin@seeder.com"
	SeedAdminPassword = "password123"
	SeedCategoryName  = "Seeder Category"
	SeedProductPrefix = "Seeder Product"
	SeedProductCount  = 50
)

// PasswordHasher hashes a plaintext password
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Seeder imports and removes the demo catalog
type Seeder struct {
	db     *gorm.DB
	hasher PasswordHasher
	rand   *rand.Rand
}

// NewSeeder creates a new seeder
func NewSeeder(db *gorm.DB, hasher PasswordHasher, src rand.Source) *Seeder {
	return &Seeder{
		db:     db,
		hasher: hasher,
		rand:   rand.New(src),
	}
}

// Import creates the demo admin and category when missing, then inserts
// SeedProductCount products owned by them
func (s *Seeder) Import(ctx context.Context) error {
	log.Println("🌱 Seeding demo catalog...")

	admin, err := s.ensureAdmin(ctx)
	if err != nil {
		return err
	}
	log.Printf("👤 Using user: %s", admin.Email)

	category, err := s.ensureCategory(ctx, admin)
	if err != nil {
		return err
	}
	log.Printf("🏷️ Using category: %s", category.Name)

	companies := []product.Company{product.CompanyIkea, product.CompanyLiddy, product.CompanyMarcos}
	products := make([]product.Product, 0, SeedProductCount)
	for i := 1; i <= SeedProductCount; i++ {
		products = append(products, product.Product{
			Name:        fmt.Sprintf("%s %d", SeedProductPrefix, i),
			Price:       decimal.NewFromInt(int64(s.rand.Intn(1000) + 10)),
			Description: fmt.Sprintf("This is a description for seeder product %d. It is a great product.", i),
			CategoryID:  category.ID,
			Company:     companies[s.rand.Intn(len(companies))],
			Colors:      pq.StringArray{"#000000", "#FFFFFF"},
			Inventory:   s.rand.Intn(100),
			Featured:    s.rand.Float64() > 0.8,
			UserID:      admin.ID,
		})
	}

	if err := s.db.WithContext(ctx).CreateInBatches(&products, 25).Error; err != nil {
		return fmt.Errorf("failed to insert demo products: %w", err)
	}

	log.Printf("✅ Imported %d demo products", len(products))
	return nil
}

// Destroy removes every demo product and their reviews
func (s *Seeder) Destroy(ctx context.Context) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seeded := tx.Model(&product.Product{}).Select("id").Where("name LIKE ?", SeedProductPrefix+"%")
		if err := tx.Where("product_id IN (?)", seeded).Delete(&product.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete demo reviews: %w", err)
		}
		result := tx.Where("name LIKE ?", SeedProductPrefix+"%").Delete(&product.Product{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete demo products: %w", result.Error)
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("🗑️ Removed %d demo products", removed)
	return removed, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context) (*user.User, error) {
	var admin user.User
	err := s.db.WithContext(ctx).Where("role = ?", user.RoleAdmin).Order("created_at").First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	log.Println("No admin user found. Creating one...")
	hash, err := s.hasher.HashPassword(SeedAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	admin = user.User{
		Name:     "Seeder Admin",
		Email:    SeedAdminEmail,
		Password: hash,
		Role:     user.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return &admin, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, owner *user.User) (*product.Category, error) {
	var category product.Category
	err := s.db.WithContext(ctx).Where("name = ?", SeedCategoryName).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	category = product.Category{Name: SeedCategoryName, UserID: owner.ID}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}
