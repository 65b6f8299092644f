package postgres

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/your-org/storefront-api/internal/domain/analytics"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/pkg/logger"
	"github.com/your-org/storefront-api/internal/pkg/pagination"
)

// openTestDB connects to TEST_DATABASE_URL and resets the schema
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		require.NoError(t, db.Migrator().DropTable(models[i]))
	}
	require.NoError(t, NewMigration(db).RunAutoMigrations())
	require.NoError(t, NewMigration(db).CreateIndexes())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (*user.User, *product.Category, *product.Product) {
	t.Helper()
	ctx := context.Background()

	owner := &user.User{Name: "Admin", Email: "Admin@Example.com", Password: "x", Role: user.RoleAdmin}
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	category := &product.Category{Name: "Chairs", UserID: owner.ID}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, category))

	p := &product.Product{
		Name:        "Accent Chair",
		Price:       decimal.NewFromInt(250),
		Description: "Comfortable",
		CategoryID:  category.ID,
		Company:     product.CompanyIkea,
		Inventory:   3,
		UserID:      owner.ID,
	}
	require.NoError(t, NewProductRepository(db).Create(ctx, p))
	return owner, category, p
}

func TestUserRepository_FindByEmailNormalizes(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedCatalog(t, db)

	found, err := NewUserRepository(db).FindByEmail(context.Background(), "  ADMIN@example.com ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, owner.ID, found.ID)

	missing, err := NewUserRepository(db).FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepository_ListAndCascade(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner, category, p := seedCatalog(t, db)
	products := NewProductRepository(db)
	reviews := NewReviewRepository(db)

	assert.Equal(t, []string{product.DefaultImage}, []string(p.Images))

	lo := decimal.NewFromInt(100)
	list, total, err := products.List(ctx, product.ListFilter{Search: "accent", MinPrice: &lo, CategoryID: &category.ID}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	_, total, err = products.List(ctx, product.ListFilter{Search: "%"}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, reviews.Create(ctx, &product.Review{Rating: 4, Title: "Good", Comment: "Nice", ProductID: p.ID, UserID: owner.ID}))
	summary, err := reviews.Summarize(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.NumOfReviews)
	assert.Equal(t, 4.0, summary.AverageRating)

	rows, err := reviews.ListWithProduct(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ProductInfo)
	assert.Equal(t, "Accent Chair", rows[0].ProductInfo.Name)

	count, err := NewCategoryRepository(db).CountProducts(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, products.Delete(ctx, p.ID))
	summary, err = reviews.Summarize(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.NumOfReviews)
}

func TestCartAndOrderRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner, _, p := seedCatalog(t, db)

	carts := cart.NewService(NewCartRepository(db), NewProductRepository(db))
	orders := order.NewService(NewOrderRepository(db), carts, order.NopAnomalyRecorder{}, logger.Discard())

	_, err := carts.AddItem(ctx, owner.ID, p.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, owner.ID, p.ID, 1)
	require.NoError(t, err)

	stored, err := carts.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Amount)
	assert.Equal(t, "750", stored.Total.String())

	o, err := orders.CreateOrder(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "950.1", o.Total.String())

	emptied, err := carts.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, emptied.IsEmpty())

	loaded, err := orders.GetSingleOrder(ctx, o.ID, owner.ID, false)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Accent Chair", loaded.Items[0].Name)
}

func TestAnalyticsRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner, _, p := seedCatalog(t, db)

	paid := &order.Order{
		UserID:      owner.ID,
		Subtotal:    decimal.NewFromInt(500),
		Tax:         order.Tax,
		ShippingFee: order.ShippingFee,
		Total:       decimal.RequireFromString("700.1"),
		IsPaid:      true,
		Status:      order.OrderStatusPaid,
		Items: []order.OrderItem{{
			ProductID: p.ID, Name: p.Name, Price: decimal.NewFromInt(250), Amount: 2,
		}},
	}
	require.NoError(t, NewOrderRepository(db).Create(ctx, paid))

	repo := NewAnalyticsRepository(db)

	revenue, err := repo.PaidRevenue(ctx, paid.CreatedAt.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), revenue.Count)
	assert.Equal(t, "700.1", revenue.Sum.String())

	byCategory, err := repo.RevenueByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Chairs", byCategory[0].Category)
	assert.Equal(t, "500", byCategory[0].Revenue.String())

	low, err := repo.LowStockProducts(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, 3, low[0].Inventory)

	svc := analytics.NewService(repo, logger.Discard())
	stats, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

func TestSeeder_ImportAndDestroy(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seeder := NewSeeder(db, plainHasher{}, rand.NewSource(1))

	require.NoError(t, seeder.Import(ctx))
	require.NoError(t, seeder.Import(ctx))

	var admins int64
	require.NoError(t, db.Model(&user.User{}).Where("email = ?", SeedAdminEmail).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	var seeded []product.Product
	require.NoError(t, db.Where("name LIKE ?", SeedProductPrefix+"%").Find(&seeded).Error)
	assert.Len(t, seeded, 2*SeedProductCount)
	for _, p := range seeded {
		assert.True(t, p.Price.GreaterThanOrEqual(decimal.NewFromInt(10)))
		assert.True(t, p.Inventory >= 0 && p.Inventory < 100)
	}

	buyer := &user.User{Name: "Buyer", Email: "buyer@example.com", Password: "x", Role: user.RoleUser}
	require.NoError(t, NewUserRepository(db).Create(ctx, buyer))
	require.NoError(t, NewReviewRepository(db).Create(ctx, &product.Review{
		Rating: 4, Title: "Nice", Comment: "Solid", ProductID: seeded[0].ID, UserID: buyer.ID,
	}))

	removed, err := seeder.Destroy(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2*SeedProductCount), removed)

	var reviews int64
	require.NoError(t, db.Model(&product.Review{}).Count(&reviews).Error)
	assert.Zero(t, reviews)
}

func TestAnalyticsRepository_MonthBucketsAreUTC(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// one connection so the session time zone applies to every query
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("SET TIME ZONE 'America/New_York'").Error)

	boundary := time.Date(2026, time.May, 1, 0, 30, 0, 0, time.UTC)
	buyer := &user.User{Name: "Night Owl", Email: "owl@example.com", Password: "x", Role: user.RoleUser, CreatedAt: boundary}
	require.NoError(t, NewUserRepository(db).Create(ctx, buyer))

	paid := &order.Order{
		UserID:      buyer.ID,
		Subtotal:    decimal.NewFromInt(100),
		Tax:         order.Tax,
		ShippingFee: order.ShippingFee,
		Total:       decimal.RequireFromString("300.1"),
		IsPaid:      true,
		Status:      order.OrderStatusPaid,
		CreatedAt:   boundary,
	}
	require.NoError(t, NewOrderRepository(db).Create(ctx, paid))

	repo := NewAnalyticsRepository(db)
	monthStart := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

	months, err := repo.MonthlyPaidOrders(ctx, monthStart)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, 2026, months[0].Year)
	assert.Equal(t, 5, months[0].Month)
	assert.Equal(t, int64(1), months[0].Count)
	assert.Equal(t, "300.1", months[0].Amount.String())

	signups, err := repo.SignupsByMonth(ctx, user.RoleUser, monthStart)
	require.NoError(t, err)
	require.Len(t, signups, 1)
	assert.Equal(t, 5, signups[0].Month)
}
