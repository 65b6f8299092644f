// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Repository runs the raw aggregation queries behind the dashboard. All
// revenue figures come from persisted order totals and line price × amount.
type Repository interface {
	CountUsers(ctx context.Context, role string) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	// PaidRevenue sums paid order totals created at or after since
	PaidRevenue(ctx context.Context, since time.Time) (RevenueTotals, error)
	MonthlyPaidOrders(ctx context.Context, since time.Time) ([]MonthBucket, error)
	RevenueByCategory(ctx context.Context) ([]CategoryRevenue, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	SignupsByMonth(ctx context.Context, role string, since time.Time) ([]MonthBucket, error)
	// ActiveUsers counts distinct users with any order
	ActiveUsers(ctx context.Context) (int64, error)
	// RepeatCustomers counts distinct users with more than one paid order
	RepeatCustomers(ctx context.Context) (int64, error)
	LowStockProducts(ctx context.Context, threshold, limit int) ([]StockLevel, error)
	MostReviewedProducts(ctx context.Context, limit int) ([]ReviewedProduct, error)
	DailyPaidSales(ctx context.Context, since time.Time) ([]DayBucket, error)
}

// CustomerRole is the role counted as a regular customer
const CustomerRole = "user"

// Service handles analytics business logic
type Service struct {
	repo   Repository
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetDashboardStats builds the full dashboard report. The queries run
// concurrently; the first failure cancels the rest and fails the report.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month()-(MonthWindow-1), 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayStart := today.AddDate(0, 0, -(DailySalesDays - 1))
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var (
		totalUsers, totalOrders, active, repeat int64
		revenue, ytd                            RevenueTotals
		monthly, signups                        []MonthBucket
		byCategory                              []CategoryRevenue
		top                                     []ProductSales
		byStatus                                []StatusCount
		lowStock                                []StockLevel
		reviewed                                []ReviewedProduct
		daily                                   []DayBucket
	)

	g, gctx := errgroup.WithContext(ctx)
	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				return fmt.Errorf("dashboard %s: %w", name, err)
			}
			return nil
		})
	}

	run("total users", func() (err error) { totalUsers, err = s.repo.CountUsers(gctx, CustomerRole); return })
	run("total orders", func() (err error) { totalOrders, err = s.repo.CountOrders(gctx); return })
	run("total revenue", func() (err error) { revenue, err = s.repo.PaidRevenue(gctx, time.Time{}); return })
	run("year to date revenue", func() (err error) { ytd, err = s.repo.PaidRevenue(gctx, yearStart); return })
	run("monthly stats", func() (err error) { monthly, err = s.repo.MonthlyPaidOrders(gctx, monthStart); return })
	run("revenue by category", func() (err error) { byCategory, err = s.repo.RevenueByCategory(gctx); return })
	run("top products", func() (err error) { top, err = s.repo.TopProducts(gctx, TopProductsLimit); return })
	run("orders by status", func() (err error) { byStatus, err = s.repo.OrdersByStatus(gctx); return })
	run("new users", func() (err error) { signups, err = s.repo.SignupsByMonth(gctx, CustomerRole, monthStart); return })
	run("active users", func() (err error) { active, err = s.repo.ActiveUsers(gctx); return })
	run("repeat customers", func() (err error) { repeat, err = s.repo.RepeatCustomers(gctx); return })
	run("low stock", func() (err error) {
		lowStock, err = s.repo.LowStockProducts(gctx, LowStockThreshold, LowStockLimit)
		return
	})
	run("most reviewed", func() (err error) {
		reviewed, err = s.repo.MostReviewedProducts(gctx, MostReviewedLimit)
		return
	})
	run("daily sales", func() (err error) { daily, err = s.repo.DailyPaidSales(gctx, dayStart); return })

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Error("dashboard report aborted")
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:               totalUsers,
		TotalOrders:              totalOrders,
		TotalRevenue:             revenue.Sum,
		MonthlyStats:             monthlyStats(monthly, monthStart),
		RevenueByCategory:        sortedCategories(byCategory),
		TopProducts:              topProducts(top),
		OrdersByStatus:           nonNilStatus(byStatus),
		AverageOrderValue:        AverageOrderValue(revenue),
		NewUsersByMonth:          monthlyCounts(signups, monthStart),
		ActiveUsers:              active,
		InactiveUsers:            InactiveUsers(totalUsers, active),
		RepeatCustomers:          repeat,
		RepeatCustomerPercentage: RepeatCustomerPercentage(repeat, active),
		AverageRevenuePerUser:    AverageRevenuePerUser(revenue.Sum, totalUsers),
		LowStockProducts:         SanitizeLowStock(lowStock),
		MostReviewedProducts:     mostReviewed(reviewed),
		DailySales:               dailySales(daily, dayStart),
		YearToDateRevenue:        ytd.Sum.Round(moneyPlaces),
		GeneratedAt:              now,
	}

	return stats, nil
}

// AverageOrderValue is paid revenue per paid order, 2 dp; zero without orders
func AverageOrderValue(paid RevenueTotals) decimal.Decimal {
	if paid.Count == 0 {
		return decimal.Zero
	}
	return paid.Sum.Div(decimal.NewFromInt(paid.Count)).Round(moneyPlaces)
}

// InactiveUsers is total minus active, floored at zero
func InactiveUsers(total, active int64) int64 {
	if active >= total {
		return 0
	}
	return total - active
}

// RepeatCustomerPercentage is repeat/active × 100, 1 dp; zero without active users
func RepeatCustomerPercentage(repeat, active int64) decimal.Decimal {
	if active == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(repeat).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(active)).
		Round(percentagePlaces)
}

// AverageRevenuePerUser is revenue/users, 2 dp; zero without users
func AverageRevenuePerUser(revenue decimal.Decimal, users int64) decimal.Decimal {
	if users == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(users)).Round(moneyPlaces)
}

// SanitizeLowStock keeps products at or under the threshold, ascending by
// inventory, at most LowStockLimit of them
func SanitizeLowStock(levels []StockLevel) []StockLevel {
	out := make([]StockLevel, 0, len(levels))
	for _, l := range levels {
		if l.Inventory <= LowStockThreshold {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Inventory < out[j].Inventory })
	if len(out) > LowStockLimit {
		out = out[:LowStockLimit]
	}
	return out
}

// MonthLabel renders a month as e.g. "October 2026"
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

func inWindow(b MonthBucket, start time.Time) bool {
	return !time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC).Before(start)
}

func newestFirst(buckets []MonthBucket) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return buckets[i].Month > buckets[j].Month
	})
}

func monthlyStats(buckets []MonthBucket, start time.Time) []MonthlyStat {
	newestFirst(buckets)
	out := make([]MonthlyStat, 0, len(buckets))
	for _, b := range buckets {
		if !inWindow(b, start) {
			continue
		}
		out = append(out, MonthlyStat{
			Date:   MonthLabel(b.Year, b.Month),
			Year:   b.Year,
			Month:  b.Month,
			Count:  b.Count,
			Amount: b.Amount.Round(moneyPlaces),
		})
	}
	return out
}

func monthlyCounts(buckets []MonthBucket, start time.Time) []MonthlyCount {
	newestFirst(buckets)
	out := make([]MonthlyCount, 0, len(buckets))
	for _, b := range buckets {
		if !inWindow(b, start) {
			continue
		}
		out = append(out, MonthlyCount{
			Date:  MonthLabel(b.Year, b.Month),
			Year:  b.Year,
			Month: b.Month,
			Count: b.Count,
		})
	}
	return out
}

func sortedCategories(rows []CategoryRevenue) []CategoryRevenue {
	out := append([]CategoryRevenue{}, rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out
}

func topProducts(rows []ProductSales) []ProductSales {
	out := append([]ProductSales{}, rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	if len(out) > TopProductsLimit {
		out = out[:TopProductsLimit]
	}
	return out
}

func mostReviewed(rows []ReviewedProduct) []ReviewedProduct {
	out := append([]ReviewedProduct{}, rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReviewCount > out[j].ReviewCount })
	if len(out) > MostReviewedLimit {
		out = out[:MostReviewedLimit]
	}
	return out
}

func nonNilStatus(rows []StatusCount) []StatusCount {
	if rows == nil {
		return []StatusCount{}
	}
	return rows
}

func dailySales(buckets []DayBucket, start time.Time) []DailySale {
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Day.Before(buckets[j].Day) })
	out := make([]DailySale, 0, len(buckets))
	for _, b := range buckets {
		if b.Day.UTC().Before(start) {
			continue
		}
		out = append(out, DailySale{
			Date:  b.Day.UTC().Format(dailySalesDateLayout),
			Count: b.Count,
			Sales: b.Sales.Round(moneyPlaces),
		})
	}
	return out
}
