package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.UserProfile{},
		&models.RevokedToken{},
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
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "tryon-test", Currency: "INR"},
		JWT: config.JWTConfig{
			SecretKey:          "user-test-secret",
			ExpireHours:        1,
			RefreshExpireHours: 24,
		},
		AdminJWT: config.JWTConfig{SecretKey: "admin-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true},
		},
		Order:  defaultOrderConfig(),
		Upload: config.UploadConfig{ProductImageMax: 800, AvatarMax: 300, MaxSize: 1 << 20, AllowedExtensions: []string{".png", ".jpg", ".jpeg"}},
	}
}

func testMoney(v string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(v))
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestCatalog(t *testing.T, db *gorm.DB) (*models.Category, *models.Brand) {
	t.Helper()
	category := &models.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	brand := &models.Brand{Name: "Acme Wear", Slug: "acme", IsActive: true}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("create brand failed: %v", err)
	}
	return category, brand
}

func createTestProduct(t *testing.T, db *gorm.DB, categoryID, brandID uint, slug, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:            slug,
		Slug:            slug,
		Description:     "cotton " + slug,
		CategoryID:      categoryID,
		BrandID:         brandID,
		Price:           testMoney(price),
		Gender:          "U",
		AvailableSizes:  "S,M,L",
		AvailableColors: "Black,White",
		StockQuantity:   20,
		IsAvailable:     true,
		IsActive:        true,
		TryOnCategory:   "tops",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uint, name string, isDefault bool) *models.ShippingAddress {
	t.Helper()
	address := &models.ShippingAddress{
		UserID:       userID,
		Name:         name,
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "India",
		PhoneNumber:  "9876543210",
		IsDefault:    isDefault,
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}
