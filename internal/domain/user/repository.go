// internal/domain/user/repository.go
package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists users. Lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
}

// TokenDenylist remembers revoked access tokens until they would have expired
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
