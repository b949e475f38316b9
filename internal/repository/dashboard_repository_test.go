package repository

import (
	"math"
	"testing"
	"time"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"
)

func TestDashboardProductStatsAndLists(t *testing.T) {
	db := openRepositoryTestDB(t)
	category, brand := seedCatalog(t, db)
	repo := NewDashboardRepository(db)

	lowStock := newTestProduct(category.ID, brand.ID, "low", 100)
	lowStock.StockQuantity = 3
	lowStock.IsTryOnEnabled = true
	mustCreate(t, db, lowStock)

	outOfStock := newTestProduct(category.ID, brand.ID, "out", 100)
	mustCreate(t, db, outOfStock)
	if err := db.Model(outOfStock).Update("stock_quantity", 0).Error; err != nil {
		t.Fatalf("update stock failed: %v", err)
	}

	healthy := newTestProduct(category.ID, brand.ID, "healthy", 100)
	mustCreate(t, db, healthy)
	mustCreate(t, db, &models.ProductImage{ProductID: healthy.ID, URL: "products/h.jpg", IsPrimary: true})

	stats, err := repo.GetProductStats(constants.LowStockThreshold)
	if err != nil {
		t.Fatalf("get product stats failed: %v", err)
	}
	if stats.TotalProducts != 3 || stats.ActiveProducts != 3 {
		t.Fatalf("total/active want 3/3 got %d/%d", stats.TotalProducts, stats.ActiveProducts)
	}
	if stats.WithImages != 1 || stats.TryOnEnabled != 1 {
		t.Fatalf("with_images/try_on want 1/1 got %d/%d", stats.WithImages, stats.TryOnEnabled)
	}
	if stats.LowStock != 1 || stats.OutOfStock != 1 {
		t.Fatalf("low/out want 1/1 got %d/%d", stats.LowStock, stats.OutOfStock)
	}

	noImages, err := repo.ListProductsWithoutImages(5)
	if err != nil {
		t.Fatalf("list without images failed: %v", err)
	}
	if len(noImages) != 2 {
		t.Fatalf("products without images want 2 got %d", len(noImages))
	}

	recent, err := repo.ListRecentProducts(time.Now().AddDate(0, 0, -7), 5)
	if err != nil {
		t.Fatalf("list recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent products want 3 got %d", len(recent))
	}

	low, err := repo.ListLowStockProducts(constants.LowStockThreshold, 5)
	if err != nil || len(low) != 1 || low[0].ID != lowStock.ID {
		t.Fatalf("low stock list want [low] got %+v err=%v", low, err)
	}
}

func TestDashboardTopCategoriesCountsActiveProducts(t *testing.T) {
	db := openRepositoryTestDB(t)
	category, brand := seedCatalog(t, db)
	empty := &models.Category{Name: "Empty", Slug: "empty", IsActive: true}
	mustCreate(t, db, empty)
	repo := NewDashboardRepository(db)

	mustCreate(t, db, newTestProduct(category.ID, brand.ID, "a", 100))
	inactive := newTestProduct(category.ID, brand.ID, "b", 100)
	mustCreate(t, db, inactive)
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	rows, err := repo.GetTopCategories(10)
	if err != nil {
		t.Fatalf("top categories failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want 2 got %d", len(rows))
	}
	if rows[0].Slug != "shirts" || rows[0].ProductCount != 2 || rows[0].ActiveProducts != 1 {
		t.Fatalf("top category mismatch: %+v", rows[0])
	}
	if rows[1].ProductCount != 0 {
		t.Fatalf("empty category count want 0 got %d", rows[1].ProductCount)
	}
}

func TestDashboardReviewAndOrderStats(t *testing.T) {
	db := openRepositoryTestDB(t)
	category, brand := seedCatalog(t, db)
	repo := NewDashboardRepository(db)
	product := newTestProduct(category.ID, brand.ID, "p", 100)
	mustCreate(t, db, product)

	for i, rating := range []int{5, 4, 4} {
		user := &models.User{Username: string(rune('a' + i)), Email: string(rune('a'+i)) + "@example.com", PasswordHash: "x", IsActive: true}
		mustCreate(t, db, user)
		mustCreate(t, db, &models.ProductReview{ProductID: product.ID, UserID: user.ID, Rating: rating, Title: "t", Content: "c", IsApproved: i != 2})
	}

	reviewStats, err := repo.GetReviewStats()
	if err != nil {
		t.Fatalf("review stats failed: %v", err)
	}
	if reviewStats.TotalReviews != 3 || reviewStats.PendingReviews != 1 {
		t.Fatalf("review total/pending want 3/1 got %d/%d", reviewStats.TotalReviews, reviewStats.PendingReviews)
	}
	if math.Abs(reviewStats.AvgRating-13.0/3.0) > 0.001 {
		t.Fatalf("avg rating want 4.333 got %f", reviewStats.AvgRating)
	}

	orders := []*models.Order{
		{OrderNumber: "ORD0000000001", UserID: 1, Status: constants.OrderStatusPending, PaymentStatus: constants.PaymentStatusPending, TotalAmount: money(286)},
		{OrderNumber: "ORD0000000002", UserID: 1, Status: constants.OrderStatusCancelled, PaymentStatus: constants.PaymentStatusPending, TotalAmount: money(1000)},
		{OrderNumber: "ORD0000000003", UserID: 1, Status: constants.OrderStatusDelivered, PaymentStatus: constants.PaymentStatusCompleted, TotalAmount: money(14)},
	}
	for _, order := range orders {
		mustCreate(t, db, order)
	}
	orderStats, err := repo.GetOrderStats()
	if err != nil {
		t.Fatalf("order stats failed: %v", err)
	}
	if orderStats.TotalOrders != 3 || orderStats.PendingOrders != 1 {
		t.Fatalf("order total/pending want 3/1 got %d/%d", orderStats.TotalOrders, orderStats.PendingOrders)
	}
	if orderStats.Revenue != 300 {
		t.Fatalf("revenue want 300 got %f", orderStats.Revenue)
	}
}

func TestCatalogStatsCountsActiveOnly(t *testing.T) {
	db := openRepositoryTestDB(t)
	category, brand := seedCatalog(t, db)
	repo := NewDashboardRepository(db)

	featured := newTestProduct(category.ID, brand.ID, "featured", 100)
	featured.IsFeatured = true
	featured.IsTryOnEnabled = true
	mustCreate(t, db, featured)
	inactive := newTestProduct(category.ID, brand.ID, "inactive", 100)
	inactive.IsFeatured = true
	mustCreate(t, db, inactive)
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	stats, err := repo.GetCatalogStats()
	if err != nil {
		t.Fatalf("catalog stats failed: %v", err)
	}
	if stats.TotalProducts != 1 || stats.FeaturedProducts != 1 || stats.TryOnProducts != 1 {
		t.Fatalf("catalog stats mismatch: %+v", stats)
	}
	if stats.TotalCategories != 1 || stats.TotalBrands != 1 {
		t.Fatalf("category/brand totals want 1/1 got %d/%d", stats.TotalCategories, stats.TotalBrands)
	}
}
