package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tryon-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T failed: %v", value, err)
	}
}

func money(v int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(v))
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Category, *models.Brand) {
	t.Helper()
	category := &models.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	mustCreate(t, db, category)
	brand := &models.Brand{Name: "Acme Wear", Slug: "acme", IsActive: true}
	mustCreate(t, db, brand)
	return category, brand
}

func newTestProduct(categoryID, brandID uint, slug string, price int64) *models.Product {
	return &models.Product{
		Name:            slug,
		Slug:            slug,
		CategoryID:      categoryID,
		BrandID:         brandID,
		Price:           money(price),
		Gender:          "U",
		AvailableSizes:  "S,M,L",
		AvailableColors: "Black,White",
		StockQuantity:   20,
		IsAvailable:     true,
		IsActive:        true,
		TryOnCategory:   "tops",
	}
}
