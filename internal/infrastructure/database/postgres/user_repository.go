// internal/infrastructure/database/postgres/user_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/domain/user"
	"gorm.io/gorm"
)

// UserRepository persists users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID returns the user or (nil, nil)
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &u, nil
}

// FindByEmail looks up by normalized email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &u, nil
}

// ListByRole returns users with role, newest first
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]user.User, error) {
	var users []user.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// notFoundAsNil maps gorm.ErrRecordNotFound to a nil error
func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
