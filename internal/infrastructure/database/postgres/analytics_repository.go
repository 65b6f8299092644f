// internal/infrastructure/database/postgres/analytics_repository.go
package postgres

import (
	"context"
	"time"

	"github.com/your-org/storefront-api/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsRepository runs the dashboard aggregation queries
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CountUsers(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("users").Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("orders").Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) PaidRevenue(ctx context.Context, since time.Time) (analytics.RevenueTotals, error) {
	var totals analytics.RevenueTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) AS sum, COUNT(*) AS count
		FROM orders
		WHERE is_paid = true AND created_at >= ?`, since).
		Scan(&totals).Error
	return totals, err
}

func (r *AnalyticsRepository) MonthlyPaidOrders(ctx context.Context, since time.Time) ([]analytics.MonthBucket, error) {
	var rows []analytics.MonthBucket
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
		       EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
		       COUNT(*) AS count,
		       COALESCE(SUM(total), 0) AS amount
		FROM orders
		WHERE is_paid = true AND created_at >= ?
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`, since).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) RevenueByCategory(ctx context.Context) ([]analytics.CategoryRevenue, error) {
	var rows []analytics.CategoryRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.name AS category, COALESCE(SUM(oi.price * oi.amount), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id AND o.is_paid = true
		JOIN products p ON p.id = oi.product_id
		JOIN categories c ON c.id = p.category_id
		GROUP BY c.name
		ORDER BY revenue DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) TopProducts(ctx context.Context, limit int) ([]analytics.ProductSales, error) {
	var rows []analytics.ProductSales
	err := r.db.WithContext(ctx).Raw(`
		SELECT oi.product_id, MAX(oi.name) AS name,
		       SUM(oi.amount) AS quantity,
		       SUM(oi.price * oi.amount) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id AND o.is_paid = true
		GROUP BY oi.product_id
		ORDER BY quantity DESC
		LIMIT ?`, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) OrdersByStatus(ctx context.Context) ([]analytics.StatusCount, error) {
	var rows []analytics.StatusCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS count
		FROM orders
		GROUP BY status
		ORDER BY count DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) SignupsByMonth(ctx context.Context, role string, since time.Time) ([]analytics.MonthBucket, error) {
	var rows []analytics.MonthBucket
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
		       EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
		       COUNT(*) AS count
		FROM users
		WHERE role = ? AND created_at >= ?
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`, role, since).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) ActiveUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw(`SELECT COUNT(DISTINCT user_id) FROM orders`).Scan(&n).Error
	return n, err
}

func (r *AnalyticsRepository) RepeatCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT user_id FROM orders
			WHERE is_paid = true
			GROUP BY user_id
			HAVING COUNT(*) > 1
		) repeaters`).
		Scan(&n).Error
	return n, err
}

func (r *AnalyticsRepository) LowStockProducts(ctx context.Context, threshold, limit int) ([]analytics.StockLevel, error) {
	var rows []analytics.StockLevel
	err := r.db.WithContext(ctx).Raw(`
		SELECT id AS product_id, name, inventory
		FROM products
		WHERE inventory <= ?
		ORDER BY inventory ASC, name
		LIMIT ?`, threshold, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) MostReviewedProducts(ctx context.Context, limit int) ([]analytics.ReviewedProduct, error) {
	var rows []analytics.ReviewedProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, p.name,
		       COUNT(rv.id) AS review_count,
		       COALESCE(AVG(rv.rating), 0) AS average_rating
		FROM reviews rv
		JOIN products p ON p.id = rv.product_id
		GROUP BY p.id, p.name
		ORDER BY review_count DESC
		LIMIT ?`, limit).
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsRepository) DailyPaidSales(ctx context.Context, since time.Time) ([]analytics.DayBucket, error) {
	var rows []analytics.DayBucket
	err := r.db.WithContext(ctx).Raw(`
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
		       COUNT(*) AS count,
		       COALESCE(SUM(total), 0) AS sales
		FROM orders
		WHERE is_paid = true AND created_at >= ?
		GROUP BY 1
		ORDER BY 1`, since).
		Scan(&rows).Error
	return rows, err
}
