package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"gorm.io/gorm"
)

type stubSearcher struct {
	ids   []uint
	err   error
	calls int
}

func (s *stubSearcher) SearchProductIDs(_ context.Context, _ string, _ int) ([]uint, error) {
	s.calls++
	return s.ids, s.err
}

func newTestCatalogService(db *gorm.DB, searcher ProductSearcher) *CatalogService {
	return NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewBrandRepository(db),
		repository.NewReviewRepository(db),
		repository.NewOrderRepository(db),
		repository.NewDashboardRepository(db),
		searcher,
	)
}

func seedCatalogForList(t *testing.T, db *gorm.DB) (*models.Category, *models.Brand) {
	t.Helper()
	category, brand := createTestCatalog(t, db)
	cheap := createTestProduct(t, db, category.ID, brand.ID, "basic-tee", "199")
	mid := createTestProduct(t, db, category.ID, brand.ID, "oxford-shirt", "899")
	pricey := createTestProduct(t, db, category.ID, brand.ID, "wool-coat", "4999")
	hidden := createTestProduct(t, db, category.ID, brand.ID, "archived-vest", "10")

	updates := []struct {
		id     uint
		column string
		value  interface{}
	}{
		{mid.ID, "is_featured", true},
		{pricey.ID, "view_count", 50},
		{cheap.ID, "view_count", 5},
		{cheap.ID, "gender", constants.GenderWomen},
		{hidden.ID, "is_active", false},
	}
	for _, u := range updates {
		if err := db.Model(&models.Product{}).Where("id = ?", u.id).Update(u.column, u.value).Error; err != nil {
			t.Fatalf("update %s failed: %v", u.column, err)
		}
	}
	return category, brand
}

func productSlugs(views []ProductView) []string {
	slugs := make([]string, 0, len(views))
	for _, v := range views {
		slugs = append(slugs, v.Slug)
	}
	return slugs
}

func TestListProductsFiltersAndSorts(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalogForList(t, db)
	svc := newTestCatalogService(db, nil)
	ctx := context.Background()

	all, total, err := svc.ListProducts(ctx, ProductListQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("active products want 3 got %d (%v)", total, productSlugs(all))
	}
	if got := productSlugs(all); got[0] != "basic-tee" || got[2] != "wool-coat" {
		t.Fatalf("default name sort unexpected: %v", got)
	}

	top, _, err := svc.ListProducts(ctx, ProductListQuery{Sort: constants.ProductSortPriceHigh, Limit: 1})
	if err != nil {
		t.Fatalf("list with limit failed: %v", err)
	}
	if len(top) != 1 || top[0].Slug != "wool-coat" {
		t.Fatalf("limit must apply after sort, got %v", productSlugs(top))
	}

	popular, _, err := svc.ListProducts(ctx, ProductListQuery{Sort: constants.ProductSortPopular})
	if err != nil {
		t.Fatalf("popular sort failed: %v", err)
	}
	if got := productSlugs(popular); got[0] != "wool-coat" || got[1] != "basic-tee" {
		t.Fatalf("popular sort unexpected: %v", got)
	}

	ranged, _, err := svc.ListProducts(ctx, ProductListQuery{MinPrice: "200", MaxPrice: "1000"})
	if err != nil {
		t.Fatalf("price range failed: %v", err)
	}
	if got := productSlugs(ranged); len(got) != 1 || got[0] != "oxford-shirt" {
		t.Fatalf("price range unexpected: %v", got)
	}

	featured, _, err := svc.ListProducts(ctx, ProductListQuery{Featured: true, Category: "shirts"})
	if err != nil {
		t.Fatalf("featured failed: %v", err)
	}
	if got := productSlugs(featured); len(got) != 1 || got[0] != "oxford-shirt" {
		t.Fatalf("featured unexpected: %v", got)
	}

	women, _, err := svc.ListProducts(ctx, ProductListQuery{Gender: "f"})
	if err != nil {
		t.Fatalf("gender failed: %v", err)
	}
	if got := productSlugs(women); len(got) != 1 || got[0] != "basic-tee" {
		t.Fatalf("gender filter unexpected: %v", got)
	}

	byBrand, _, err := svc.ListProducts(ctx, ProductListQuery{Search: "acme"})
	if err != nil {
		t.Fatalf("brand search failed: %v", err)
	}
	if len(byBrand) != 3 {
		t.Fatalf("search on brand name want 3 got %v", productSlugs(byBrand))
	}

	none, total, err := svc.ListProducts(ctx, ProductListQuery{Brand: "missing-brand"})
	if err != nil || total != 0 || len(none) != 0 {
		t.Fatalf("unknown brand want empty got %v total=%d err=%v", productSlugs(none), total, err)
	}

	if _, _, err := svc.ListProducts(ctx, ProductListQuery{MinPrice: "cheap"}); err == nil {
		t.Fatalf("invalid min_price must fail")
	} else if verr, ok := AsValidationError(err); !ok || verr.Fields["min_price"] == "" {
		t.Fatalf("want min_price validation error got %v", err)
	}
}

func TestListProductsUsesSearcherAndFallsBack(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalogForList(t, db)
	ctx := context.Background()

	var coat models.Product
	if err := db.Where("slug = ?", "wool-coat").First(&coat).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}

	searcher := &stubSearcher{ids: []uint{coat.ID}}
	svc := newTestCatalogService(db, searcher)
	hits, _, err := svc.ListProducts(ctx, ProductListQuery{Search: "woolen"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if searcher.calls != 1 || len(hits) != 1 || hits[0].Slug != "wool-coat" {
		t.Fatalf("searcher hits unexpected: calls=%d %v", searcher.calls, productSlugs(hits))
	}

	searcher.ids = nil
	empty, _, err := svc.ListProducts(ctx, ProductListQuery{Search: "nothing"})
	if err != nil || len(empty) != 0 {
		t.Fatalf("no search hits want empty got %v err=%v", productSlugs(empty), err)
	}

	searcher.err = errors.New("cluster red")
	fallback, _, err := svc.ListProducts(ctx, ProductListQuery{Search: "oxford"})
	if err != nil {
		t.Fatalf("fallback search failed: %v", err)
	}
	if got := productSlugs(fallback); len(got) != 1 || got[0] != "oxford-shirt" {
		t.Fatalf("sql fallback unexpected: %v", got)
	}
}

func TestGetProductBySlug(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "silk-dress", "1000")
	sale := testMoney("750")
	if err := db.Model(product).Update("sale_price", sale).Error; err != nil {
		t.Fatalf("set sale price failed: %v", err)
	}
	svc := newTestCatalogService(db, nil)

	detail, err := svc.GetProductBySlug("silk-dress")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if detail.CurrentPrice.String() != "750.00" || !detail.IsOnSale || detail.DiscountPercentage != 25 {
		t.Fatalf("derived price unexpected: %s %v %d", detail.CurrentPrice.String(), detail.IsOnSale, detail.DiscountPercentage)
	}
	if detail.Category == nil || detail.Brand == nil {
		t.Fatalf("relations must be preloaded")
	}
	if detail.ViewCount != 1 {
		t.Fatalf("view count want 1 got %d", detail.ViewCount)
	}

	if err := db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := svc.GetProductBySlug("silk-dress"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product want %v got %v", ErrProductNotFound, err)
	}
}

func TestCreateReview(t *testing.T) {
	db := setupServiceTestDB(t)
	category, brand := createTestCatalog(t, db)
	product := createTestProduct(t, db, category.ID, brand.ID, "chinos", "1200")
	user := createTestUser(t, db, "reviewer")
	svc := newTestCatalogService(db, nil)
	ctx := context.Background()

	if _, err := svc.CreateReview(ctx, user.ID, "chinos", CreateReviewInput{Rating: 6, Title: "t", Content: "c"}); err == nil {
		t.Fatalf("rating 6 must fail")
	} else if verr, ok := AsValidationError(err); !ok || verr.Fields["rating"] != "error.review_rating_range" {
		t.Fatalf("want rating validation error got %v", err)
	}

	order := &models.Order{OrderNumber: "ORD0000000001", UserID: user.ID, Status: constants.OrderStatusDelivered, PaymentStatus: constants.PaymentStatusCompleted}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := db.Create(&models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 1, ProductName: "chinos", UnitPrice: testMoney("1200"), TotalPrice: testMoney("1200")}).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}

	review, err := svc.CreateReview(ctx, user.ID, "chinos", CreateReviewInput{Rating: 4, Title: "Great fit", Content: "True to size"})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if !review.IsApproved || !review.IsVerifiedPurchase {
		t.Fatalf("review flags unexpected: approved=%v verified=%v", review.IsApproved, review.IsVerifiedPurchase)
	}

	if _, err := svc.CreateReview(ctx, user.ID, "chinos", CreateReviewInput{Rating: 5, Title: "Again", Content: "Again"}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("duplicate review want %v got %v", ErrReviewExists, err)
	}
	if _, err := svc.CreateReview(ctx, user.ID, "missing", CreateReviewInput{Rating: 5, Title: "x", Content: "y"}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want %v got %v", ErrProductNotFound, err)
	}

	reviews, err := svc.ListReviews("chinos")
	if err != nil || len(reviews) != 1 {
		t.Fatalf("list reviews want 1 got %d err=%v", len(reviews), err)
	}
	detail, err := svc.GetProductBySlug("chinos")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if detail.ReviewCount != 1 || detail.AverageRating != 4 {
		t.Fatalf("review aggregate unexpected: %d %v", detail.ReviewCount, detail.AverageRating)
	}
}

func TestCatalogStats(t *testing.T) {
	db := setupServiceTestDB(t)
	seedCatalogForList(t, db)
	svc := newTestCatalogService(db, nil)

	stats, err := svc.CatalogStats()
	if err != nil {
		t.Fatalf("catalog stats failed: %v", err)
	}
	if stats.TotalProducts != 3 || stats.TotalCategories != 1 || stats.TotalBrands != 1 || stats.FeaturedProducts != 1 {
		t.Fatalf("catalog stats unexpected: %+v", stats)
	}
}
