// internal/domain/analytics/entity.go
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report tuning
const (
	MonthWindow          = 6
	DailySalesDays       = 7
	TopProductsLimit     = 5
	MostReviewedLimit    = 5
	LowStockThreshold    = 10
	LowStockLimit        = 10
	moneyPlaces          = 2
	percentagePlaces     = 1
	dailySalesDateLayout = "2006-01-02"
)

// DashboardStats is the admin dashboard report
type DashboardStats struct {
	TotalUsers               int64             `json:"totalUsers"`
	TotalOrders              int64             `json:"totalOrders"`
	TotalRevenue             decimal.Decimal   `json:"totalRevenue"`
	MonthlyStats             []MonthlyStat     `json:"monthlyStats"`
	RevenueByCategory        []CategoryRevenue `json:"revenueByCategory"`
	TopProducts              []ProductSales    `json:"topProducts"`
	OrdersByStatus           []StatusCount     `json:"ordersByStatus"`
	AverageOrderValue        decimal.Decimal   `json:"averageOrderValue"`
	NewUsersByMonth          []MonthlyCount    `json:"newUsersByMonth"`
	ActiveUsers              int64             `json:"activeUsers"`
	InactiveUsers            int64             `json:"inactiveUsers"`
	RepeatCustomers          int64             `json:"repeatCustomers"`
	RepeatCustomerPercentage decimal.Decimal   `json:"repeatCustomerPercentage"`
	AverageRevenuePerUser    decimal.Decimal   `json:"averageRevenuePerUser"`
	LowStockProducts         []StockLevel      `json:"lowStockProducts"`
	MostReviewedProducts     []ReviewedProduct `json:"mostReviewedProducts"`
	DailySales               []DailySale       `json:"dailySales"`
	YearToDateRevenue        decimal.Decimal   `json:"yearToDateRevenue"`
	GeneratedAt              time.Time         `json:"generatedAt"`
}

// MonthlyStat is paid order volume for one calendar month
type MonthlyStat struct {
	Date   string          `json:"date"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyCount is a count for one calendar month
type MonthlyCount struct {
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int64  `json:"count"`
}

// CategoryRevenue is line revenue attributed to one category
type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductSales is units and revenue sold for one product
type ProductSales struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// StatusCount is the number of orders in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StockLevel is a product's remaining inventory
type StockLevel struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Inventory int       `json:"inventory"`
}

// ReviewedProduct is a product with its review count
type ReviewedProduct struct {
	ProductID     uuid.UUID `json:"productId"`
	Name          string    `json:"name"`
	ReviewCount   int64     `json:"reviewCount"`
	AverageRating float64   `json:"averageRating"`
}

// DailySale is paid order volume for one UTC day
type DailySale struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Sales decimal.Decimal `json:"sales"`
}

// MonthBucket is a raw (year, month) aggregate row
type MonthBucket struct {
	Year   int
	Month  int
	Count  int64
	Amount decimal.Decimal
}

// DayBucket is a raw per-day aggregate row; Day is midnight UTC
type DayBucket struct {
	Day   time.Time
	Count int64
	Sales decimal.Decimal
}

// RevenueTotals is the sum and count of paid order totals
type RevenueTotals struct {
	Sum   decimal.Decimal
	Count int64
}
