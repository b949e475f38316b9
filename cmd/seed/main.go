package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
	"github.com/tryon-shop/internal/service"

	"gorm.io/gorm"
)

type seedCategory struct {
	Name        string
	Description string
	SortOrder   int
}

type seedBrand struct {
	Name        string
	Description string
}

type seedProduct struct {
	Name             string
	Category         string
	Brand            string
	Price            string
	SalePrice        string
	Gender           string
	TryOnCategory    string
	Description      string
	ShortDescription string
	Sizes            string
	Colors           string
	Featured         bool
	NoTryOn          bool
}

var categories = []seedCategory{
	{Name: "T-Shirts", Description: "Comfortable and stylish t-shirts for everyday wear", SortOrder: 1},
	{Name: "Shirts", Description: "Formal and casual shirts for all occasions", SortOrder: 2},
	{Name: "Jeans", Description: "Denim jeans in various styles and fits", SortOrder: 3},
	{Name: "Dresses", Description: "Beautiful dresses for every occasion", SortOrder: 4},
	{Name: "Jackets", Description: "Stylish jackets and outerwear", SortOrder: 5},
	{Name: "Sneakers", Description: "Comfortable and trendy sneakers", SortOrder: 6},
}

var brands = []seedBrand{
	{Name: "Nike", Description: "Leading sportswear brand"},
	{Name: "Adidas", Description: "Global sportswear manufacturer"},
	{Name: "Zara", Description: "Fast fashion retailer with trendy designs"},
	{Name: "H&M", Description: "Affordable fashion for everyone"},
	{Name: "Uniqlo", Description: "Quality basics and innovative fabrics"},
	{Name: "Levi's", Description: "Original jeans company since 1853"},
}

var products = []seedProduct{
	{Name: "Classic Cotton T-Shirt", Category: "T-Shirts", Brand: "Uniqlo", Price: "19.99", Gender: "U", TryOnCategory: "tops",
		Description: "Soft, comfortable cotton t-shirt perfect for everyday wear.", ShortDescription: "Comfortable cotton tee for daily wear",
		Sizes: "XS,S,M,L,XL,XXL", Colors: "White,Black,Navy,Gray,Red", Featured: true},
	{Name: "Dri-FIT Running Tee", Category: "T-Shirts", Brand: "Nike", Price: "29.99", SalePrice: "24.99", Gender: "U", TryOnCategory: "tops",
		Description: "Moisture-wicking t-shirt designed for active lifestyle.", ShortDescription: "Performance tee with moisture-wicking technology",
		Sizes: "S,M,L,XL", Colors: "Black,White,Blue,Green", Featured: true},
	{Name: "Oxford Button-Down Shirt", Category: "Shirts", Brand: "Uniqlo", Price: "39.99", Gender: "M", TryOnCategory: "tops",
		Description: "Classic oxford shirt perfect for business casual or smart casual looks.", ShortDescription: "Classic oxford button-down shirt",
		Sizes: "S,M,L,XL", Colors: "White,Blue,Pink,Light Blue"},
	{Name: "Linen Casual Shirt", Category: "Shirts", Brand: "Zara", Price: "49.99", Gender: "M", TryOnCategory: "tops",
		Description: "Lightweight linen shirt perfect for summer.", ShortDescription: "Lightweight summer linen shirt",
		Sizes: "S,M,L,XL", Colors: "White,Beige,Navy,Light Green"},
	{Name: "501 Original Fit Jeans", Category: "Jeans", Brand: "Levi's", Price: "89.99", Gender: "U", TryOnCategory: "bottoms",
		Description: "The original blue jean. Straight fit with iconic styling.", ShortDescription: "Classic straight-fit jeans",
		Sizes: "28,30,32,34,36,38", Colors: "Dark Blue,Light Blue,Black", Featured: true},
	{Name: "Skinny Fit Jeans", Category: "Jeans", Brand: "H&M", Price: "34.99", Gender: "F", TryOnCategory: "bottoms",
		Description: "Modern skinny fit jeans with stretch for comfort.", ShortDescription: "Comfortable skinny fit jeans",
		Sizes: "25,26,27,28,29,30", Colors: "Dark Blue,Black,Gray"},
	{Name: "Floral Summer Dress", Category: "Dresses", Brand: "Zara", Price: "59.99", SalePrice: "39.99", Gender: "F", TryOnCategory: "dresses",
		Description: "Floral print dress perfect for summer occasions.", ShortDescription: "Elegant floral summer dress",
		Sizes: "XS,S,M,L,XL", Colors: "Blue Floral,Pink Floral,White Floral", Featured: true},
	{Name: "Little Black Dress", Category: "Dresses", Brand: "H&M", Price: "44.99", Gender: "F", TryOnCategory: "dresses",
		Description: "Classic little black dress suitable for any occasion.", ShortDescription: "Versatile little black dress",
		Sizes: "XS,S,M,L,XL", Colors: "Black"},
	{Name: "Denim Jacket", Category: "Jackets", Brand: "Levi's", Price: "79.99", Gender: "U", TryOnCategory: "outerwear",
		Description: "Classic denim jacket that never goes out of style.", ShortDescription: "Timeless denim jacket",
		Sizes: "S,M,L,XL", Colors: "Light Blue,Dark Blue,Black"},
	{Name: "Windbreaker Jacket", Category: "Jackets", Brand: "Nike", Price: "69.99", Gender: "U", TryOnCategory: "outerwear",
		Description: "Lightweight windbreaker perfect for outdoor activities.", ShortDescription: "Lightweight windbreaker jacket",
		Sizes: "S,M,L,XL", Colors: "Black,Navy,Gray,Red"},
	{Name: "Air Max 90", Category: "Sneakers", Brand: "Nike", Price: "119.99", Gender: "U", TryOnCategory: "accessories",
		Description: "Iconic sneakers with visible air cushioning.", ShortDescription: "Classic Air Max sneakers",
		Sizes: "7,8,9,10,11,12", Colors: "White,Black,Red,Blue", Featured: true, NoTryOn: true},
	{Name: "Stan Smith Sneakers", Category: "Sneakers", Brand: "Adidas", Price: "89.99", Gender: "U", TryOnCategory: "accessories",
		Description: "Classic white leather sneakers with green accents.", ShortDescription: "Iconic white leather sneakers",
		Sizes: "7,8,9,10,11,12", Colors: "White/Green,White/Navy,All White", NoTryOn: true},
}

func main() {
	clearFirst := flag.Bool("clear", false, "清空商品、品牌与分类后再写入")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if *clearFirst {
		if err := clearCatalog(models.DB); err != nil {
			stdLog.Fatalf("Failed to clear catalog: %v", err)
		}
		stdLog.Printf("Catalog cleared")
	}

	categoryRepo := repository.NewCategoryRepository(models.DB)
	brandRepo := repository.NewBrandRepository(models.DB)
	productRepo := repository.NewProductRepository(models.DB)
	categoryService := service.NewCategoryService(categoryRepo, brandRepo)
	// 种子数据不上传图片，也不投递异步任务
	productService := service.NewAdminProductService(cfg.Upload, productRepo, repository.NewProductImageRepository(models.DB), categoryRepo, brandRepo, nil, nil)
	ctx := context.Background()

	categoryIDs := map[string]uint{}
	for _, item := range categories {
		slug := service.Slugify(item.Name)
		existing, err := categoryRepo.GetBySlug(slug)
		if err != nil {
			stdLog.Fatalf("Failed to load category %s: %v", slug, err)
		}
		if existing != nil {
			categoryIDs[item.Name] = existing.ID
			stdLog.Printf("Category already exists: %s", slug)
			continue
		}
		created, err := categoryService.CreateCategory(ctx, service.CategoryInput{
			Name:        item.Name,
			Description: item.Description,
			SortOrder:   item.SortOrder,
		})
		if err != nil {
			stdLog.Fatalf("Failed to create category %s: %v", slug, err)
		}
		categoryIDs[item.Name] = created.ID
		stdLog.Printf("Created category: %s", created.Slug)
	}

	brandIDs := map[string]uint{}
	for _, item := range brands {
		slug := service.Slugify(item.Name)
		existing, err := brandRepo.GetBySlug(slug)
		if err != nil {
			stdLog.Fatalf("Failed to load brand %s: %v", slug, err)
		}
		if existing != nil {
			brandIDs[item.Name] = existing.ID
			stdLog.Printf("Brand already exists: %s", slug)
			continue
		}
		created, err := categoryService.CreateBrand(ctx, service.BrandInput{Name: item.Name, Description: item.Description})
		if err != nil {
			stdLog.Fatalf("Failed to create brand %s: %v", slug, err)
		}
		brandIDs[item.Name] = created.ID
		stdLog.Printf("Created brand: %s", created.Slug)
	}

	createdCount := 0
	for _, item := range products {
		slug := service.Slugify(fmt.Sprintf("%s-%s", item.Brand, item.Name))
		existing, err := productRepo.GetBySlug(slug, false)
		if err != nil {
			stdLog.Fatalf("Failed to load product %s: %v", slug, err)
		}
		if existing != nil {
			stdLog.Printf("Product already exists: %s", slug)
			continue
		}
		tryOn := !item.NoTryOn
		featured := item.Featured
		if _, err := productService.Create(ctx, service.ProductInput{
			Name:             item.Name,
			Slug:             slug,
			Description:      item.Description,
			ShortDescription: item.ShortDescription,
			CategoryID:       categoryIDs[item.Category],
			BrandID:          brandIDs[item.Brand],
			Price:            item.Price,
			SalePrice:        item.SalePrice,
			Gender:           item.Gender,
			AvailableSizes:   item.Sizes,
			AvailableColors:  item.Colors,
			StockQuantity:    10 + rand.Intn(91),
			IsTryOnEnabled:   &tryOn,
			TryOnCategory:    item.TryOnCategory,
			MetaTitle:        fmt.Sprintf("%s - %s", item.Name, item.Brand),
			MetaDescription:  item.ShortDescription,
			IsFeatured:       &featured,
		}); err != nil {
			stdLog.Printf("Failed to create product %s: %v", slug, err)
			continue
		}
		createdCount++
		stdLog.Printf("Created product: %s", slug)
	}

	var totals [3]int64
	models.DB.Model(&models.Category{}).Count(&totals[0])
	models.DB.Model(&models.Brand{}).Count(&totals[1])
	models.DB.Model(&models.Product{}).Count(&totals[2])
	stdLog.Printf("%s", strings.Join([]string{
		"Seed finished",
		fmt.Sprintf("created products: %d", createdCount),
		fmt.Sprintf("categories: %d, brands: %d, products: %d", totals[0], totals[1], totals[2]),
	}, "\n"))
}

// clearCatalog 物理删除目录数据，订单项仍保留快照
func clearCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		session := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
		for _, model := range []interface{}{&models.CartItem{}, &models.ProductReview{}, &models.ProductImage{}, &models.Product{}, &models.Brand{}, &models.Category{}} {
			if err := session.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
