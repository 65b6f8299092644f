// internal/pkg/auth/password.go
package auth

import (
	"fmt"

	"github.com/your-org/storefront-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordLength = 72 // bcrypt ignores anything longer

// PasswordManager handles password operations
type PasswordManager struct {
	cost      int
	minLength int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	return &PasswordManager{
		cost:      cfg.Security.BcryptCost,
		minLength: cfg.Security.MinPasswordLength,
	}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword checks length bounds only
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < p.minLength {
		return fmt.Errorf("password must be at least %d characters long", p.minLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be no more than %d characters long", maxPasswordLength)
	}
	return nil
}
