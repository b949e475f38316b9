//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"

		"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.ProductImage{},
		&models.Product{},
		&models.Brand{},
		&models.Category{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	category, brand := seedCatalog(t, db)

	productRepo := NewProductRepository(db)
	product := newTestProduct(category.ID, brand.ID, "pg-linen-kurta", 1499)
	product.Name = "Linen Kurta"
	product.Description = "Breathable summer KURTA in organic linen"
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	for _, keyword := range []string{"kurta", "ORGANIC", "Linen"} {
		rows, total, err := productRepo.List(ProductListFilter{Page: 1, PageSize: 10, Search: keyword})
		if err != nil {
			t.Fatalf("product search %q failed: %v", keyword, err)
		}
		if total != 1 || len(rows) != 1 {
			t.Fatalf("product search %q want 1 got total=%d len=%d", keyword, total, len(rows))
		}
	}
}

func TestPostgresDashboardQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewDashboardRepository(db)
	now := time.Now().UTC().Truncate(time.Second)
	category, brand := seedCatalog(t, db)

	product := newTestProduct(category.ID, brand.ID, "pg-dashboard-tee", 120)
	mustCreate(t, db, product)

	orders := []*models.Order{
		{OrderNumber: "ORDPG000001", UserID: 1, Status: constants.OrderStatusDelivered, PaymentStatus: constants.PaymentStatusCompleted, TotalAmount: money(240), CreatedAt: now},
		{OrderNumber: "ORDPG000002", UserID: 1, Status: constants.OrderStatusCancelled, PaymentStatus: constants.PaymentStatusPending, TotalAmount: money(99), CreatedAt: now},
	}
	for _, order := range orders {
		mustCreate(t, db, order)
	}
	mustCreate(t, db, &models.OrderItem{
		OrderID:     orders[0].ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    2,
		UnitPrice:   money(120),
		TotalPrice:  money(240),
		CreatedAt:   now,
	})

	trends, err := repo.GetOrderTrends(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get order trends failed: %v", err)
	}
	if len(trends) != 1 {
		t.Fatalf("order trends len want 1 got %d", len(trends))
	}
	if strings.TrimSpace(trends[0].Day) == "" {
		t.Fatalf("order trend day should not be empty")
	}
	if trends[0].Orders != 2 || trends[0].Revenue != 240 {
		t.Fatalf("order trend want orders=2 revenue=240 got %+v", trends[0])
	}

	categories, err := repo.GetTopCategories(5)
	if err != nil {
		t.Fatalf("get top categories failed: %v", err)
	}
	if len(categories) != 1 || categories[0].ProductCount != 1 {
		t.Fatalf("top categories unexpected: %+v", categories)
	}
}
