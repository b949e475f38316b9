package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"github.com/shopspring/decimal"
)

const searchCandidateLimit = 200

// ProductSearcher 全文检索后端，返回命中的商品 ID
type ProductSearcher interface {
	SearchProductIDs(ctx context.Context, query string, size int) ([]uint, error)
}

// ProductView 商品展示视图，附带派生价格字段
type ProductView struct {
	*models.Product
	CurrentPrice       models.Money         `json:"current_price"`
	IsOnSale           bool                 `json:"is_on_sale"`
	DiscountPercentage int                  `json:"discount_percentage"`
	Sizes              []string             `json:"sizes"`
	Colors             []string             `json:"colors"`
	PrimaryImage       *models.ProductImage `json:"primary_image,omitempty"`
}

// ProductDetailView 商品详情视图
type ProductDetailView struct {
	ProductView
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// NewProductView 构造商品视图
func NewProductView(product *models.Product) ProductView {
	return ProductView{
		Product:            product,
		CurrentPrice:       product.CurrentPrice(),
		IsOnSale:           product.IsOnSale(),
		DiscountPercentage: product.DiscountPercentage(),
		Sizes:              product.SizeList(),
		Colors:             product.ColorList(),
		PrimaryImage:       product.PrimaryImage(),
	}
}

func newProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, NewProductView(&products[i]))
	}
	return views
}

// ProductListQuery 前台商品列表查询参数
type ProductListQuery struct {
	Search   string
	Category string
	Brand    string
	Gender   string
	MinPrice string
	MaxPrice string
	Featured bool
	Sort     string
	Limit    int
	Page     int
	PageSize int
}

// CreateReviewInput 提交评价输入
type CreateReviewInput struct {
	Rating         int
	Title          string
	Content        string
	SizePurchased  string
	ColorPurchased string
}

// CatalogStats 前台目录统计
type CatalogStats struct {
	TotalProducts    int64 `json:"total_products"`
	TotalCategories  int64 `json:"total_categories"`
	TotalBrands      int64 `json:"total_brands"`
	FeaturedProducts int64 `json:"featured_products"`
	TryOnProducts    int64 `json:"try_on_enabled_products"`
}

// CatalogService 商品目录（前台只读路径与评价）
type CatalogService struct {
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	brandRepo     repository.BrandRepository
	reviewRepo    repository.ReviewRepository
	orderRepo     repository.OrderRepository
	dashboardRepo repository.DashboardRepository
	searcher      ProductSearcher
}

// NewCatalogService 创建目录服务，searcher 可为空
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	dashboardRepo repository.DashboardRepository,
	searcher ProductSearcher,
) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		brandRepo:     brandRepo,
		reviewRepo:    reviewRepo,
		orderRepo:     orderRepo,
		dashboardRepo: dashboardRepo,
		searcher:      searcher,
	}
}

// ListProducts 前台商品列表
// 过滤与排序都在 SQL 内完成，limit 在排序之后截取。
func (s *CatalogService) ListProducts(ctx context.Context, query ProductListQuery) ([]ProductView, int64, error) {
	filter := repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		Limit:        query.Limit,
		CategorySlug: strings.TrimSpace(query.Category),
		BrandSlug:    strings.TrimSpace(query.Brand),
		Gender:       strings.ToUpper(strings.TrimSpace(query.Gender)),
		Search:       strings.TrimSpace(query.Search),
		Featured:     query.Featured,
		OnlyActive:   true,
		Sort:         query.Sort,
		WithRelation: true,
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}

	verr := &ValidationError{}
	if minPrice, ok := parseOptionalDecimal(query.MinPrice); !ok {
		verr.Add("min_price", "error.field_invalid")
	} else {
		filter.MinPrice = minPrice
	}
	if maxPrice, ok := parseOptionalDecimal(query.MaxPrice); !ok {
		verr.Add("max_price", "error.field_invalid")
	} else {
		filter.MaxPrice = maxPrice
	}
	if err := verr.OrNil(); err != nil {
		return nil, 0, err
	}

	if filter.Search != "" && s.searcher != nil {
		ids, err := s.searcher.SearchProductIDs(ctx, filter.Search, searchCandidateLimit)
		if err != nil {
			logger.Warnw("product_search_fallback_to_sql", "query", filter.Search, "error", err)
		} else {
			if ids == nil {
				ids = []uint{}
			}
			filter.SearchIDs = ids
		}
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	return newProductViews(products), total, nil
}

// GetProductBySlug 商品详情，浏览量自增失败不影响返回
func (s *CatalogService) GetProductBySlug(slug string) (*ProductDetailView, error) {
	product, err := s.getActiveProduct(slug)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.IncrementViewCount(product.ID); err != nil {
		logger.Warnw("product_view_count_increment_failed", "product_id", product.ID, "error", err)
	} else {
		product.ViewCount++
	}

	detail := &ProductDetailView{
		ProductView: NewProductView(product),
		ReviewCount: len(product.Reviews),
	}
	detail.AverageRating = averageRating(product.Reviews)
	return detail, nil
}

// ListCategories 启用的分类
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List(true)
}

// ListBrands 启用的品牌
func (s *CatalogService) ListBrands() ([]models.Brand, error) {
	return s.brandRepo.List(true)
}

// CatalogStats 目录统计
func (s *CatalogService) CatalogStats() (*CatalogStats, error) {
	row, err := s.dashboardRepo.GetCatalogStats()
	if err != nil {
		return nil, err
	}
	return &CatalogStats{
		TotalProducts:    row.TotalProducts,
		TotalCategories:  row.TotalCategories,
		TotalBrands:      row.TotalBrands,
		FeaturedProducts: row.FeaturedProducts,
		TryOnProducts:    row.TryOnProducts,
	}, nil
}

// ListReviews 已审核的商品评价
func (s *CatalogService) ListReviews(slug string) ([]models.ProductReview, error) {
	product, err := s.getActiveProduct(slug)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.ListApprovedByProduct(product.ID)
}

// CreateReview 提交评价，每个用户对同一商品只能评价一次
func (s *CatalogService) CreateReview(ctx context.Context, userID uint, slug string, input CreateReviewInput) (*models.ProductReview, error) {
	verr := &ValidationError{}
	if input.Rating < 1 || input.Rating > 5 {
		verr.Add("rating", "error.review_rating_range")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		verr.Add("title", "error.field_required")
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		verr.Add("content", "error.field_required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	product, err := s.getActiveProduct(slug)
	if err != nil {
		return nil, err
	}
	existing, err := s.reviewRepo.GetByProductAndUser(product.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	purchased, err := s.orderRepo.HasPurchased(userID, product.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := &models.ProductReview{
		ProductID:          product.ID,
		UserID:             userID,
		Rating:             input.Rating,
		Title:              title,
		Content:            content,
		SizePurchased:      strings.TrimSpace(input.SizePurchased),
		ColorPurchased:     strings.TrimSpace(input.ColorPurchased),
		IsApproved:         true,
		IsVerifiedPurchase: purchased,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	if err := cache.InvalidateDashboardOverview(ctx); err != nil {
		logger.Debugw("dashboard_cache_invalidate_failed", "error", err)
	}
	return review, nil
}

func (s *CatalogService) getActiveProduct(slug string) (*models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// parseOptionalDecimal 空串视为未设置
func parseOptionalDecimal(raw string) (*decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil, false
	}
	return &value, true
}

func averageRating(reviews []models.ProductReview) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}
