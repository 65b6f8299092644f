// internal/domain/product/entity.go
package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultImage     = "/uploads/example.jpeg"
	DefaultColor     = "#222"
	DefaultInventory = 15

	MaxNameLength         = 100
	MaxDescriptionLength  = 1000
	MaxCategoryNameLength = 50
	MaxReviewTitleLength  = 100
)

// Company is the manufacturer a product is listed under
type Company string

const (
	CompanyIkea   Company = "ikea"
	CompanyLiddy  Company = "liddy"
	CompanyMarcos Company = "marcos"
)

// Valid reports whether c is one of the supported companies
func (c Company) Valid() bool {
	switch c {
	case CompanyIkea, CompanyLiddy, CompanyMarcos:
		return true
	}
	return false
}

// Product represents the product entity
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"not null;size:100;index" json:"name"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Description   string          `gorm:"not null;size:1000" json:"description"`
	Images        pq.StringArray  `gorm:"type:text[]" json:"images"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"category"`
	Company       Company         `gorm:"not null;size:20" json:"company"`
	Colors        pq.StringArray  `gorm:"type:text[]" json:"colors"`
	Featured      bool            `gorm:"default:false" json:"featured"`
	FreeShipping  bool            `gorm:"default:false" json:"freeShipping"`
	Inventory     int             `gorm:"not null;default:15" json:"inventory"`
	AverageRating float64         `gorm:"type:numeric(3,2);default:0" json:"averageRating"`
	NumOfReviews  int             `gorm:"default:0" json:"numOfReviews"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null" json:"user"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the id and fills list defaults
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.ApplyDefaults()
	return nil
}

// ApplyDefaults fills the fields that have catalog-wide defaults
func (p *Product) ApplyDefaults() {
	if len(p.Images) == 0 {
		p.Images = pq.StringArray{DefaultImage}
	}
	if len(p.Colors) == 0 {
		p.Colors = pq.StringArray{DefaultColor}
	}
}

// PrimaryImage returns the first image, or "" when there is none
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category groups products
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:50;uniqueIndex" json:"name"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name
func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns the id
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Name = strings.TrimSpace(c.Name)
	return nil
}

// Review is one user's rating of one product
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title     string    `gorm:"not null;size:100" json:"title"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"product"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns the id
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ProductSummary is the product slice shown next to a review
type ProductSummary struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Company Company         `json:"company"`
	Price   decimal.Decimal `json:"price"`
}

// ReviewWithProduct is a review listing row
type ReviewWithProduct struct {
	Review
	ProductInfo *ProductSummary `json:"product"`
}

// RatingSummary is the aggregate written back onto a product
type RatingSummary struct {
	AverageRating float64
	NumOfReviews  int
}
