// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the user entity
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:50" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string    `gorm:"not null;size:255" json:"-"`
	Role      string    `gorm:"not null;size:20;default:user;index" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id and normalizes the email
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
