package repository

import (
	"fmt"
	"time"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetProductStats(lowStockThreshold int) (DashboardProductStatsRow, error)
	GetReviewStats() (DashboardReviewStatsRow, error)
	GetOrderStats() (DashboardOrderStatsRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetTopCategories(limit int) ([]DashboardRankingRow, error)
	GetTopBrands(limit int) ([]DashboardRankingRow, error)
	ListRecentProducts(since time.Time, limit int) ([]models.Product, error)
	ListProductsWithoutImages(limit int) ([]models.Product, error)
	ListLowStockProducts(threshold, limit int) ([]models.Product, error)
	ListOutOfStockProducts(limit int) ([]models.Product, error)
	GetCatalogStats() (CatalogStatsRow, error)
}

// DashboardProductStatsRow 商品统计
type DashboardProductStatsRow struct {
	TotalProducts  int64
	ActiveProducts int64
	WithImages     int64
	TryOnEnabled   int64
	LowStock       int64
	OutOfStock     int64
}

// DashboardReviewStatsRow 评价统计
type DashboardReviewStatsRow struct {
	TotalReviews   int64
	PendingReviews int64
	AvgRating      float64
}

// DashboardOrderStatsRow 订单统计
type DashboardOrderStatsRow struct {
	TotalOrders   int64
	PendingOrders int64
	Revenue       float64
}

// DashboardOrderTrendRow 订单趋势统计
type DashboardOrderTrendRow struct {
	Day     string
	Orders  int64
	Revenue float64
}

// DashboardRankingRow 分类/品牌按商品数排行
type DashboardRankingRow struct {
	ID             uint
	Name           string
	Slug           string
	ProductCount   int64
	ActiveProducts int64
}

// CatalogStatsRow 前台目录统计
type CatalogStatsRow struct {
	TotalProducts    int64
	TotalCategories  int64
	TotalBrands      int64
	FeaturedProducts int64
	TryOnProducts    int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

const productHasImageSQL = "EXISTS (SELECT 1 FROM product_images pi WHERE pi.product_id = products.id)"

// GetProductStats 获取商品统计
func (r *GormDashboardRepository) GetProductStats(lowStockThreshold int) (DashboardProductStatsRow, error) {
	result := DashboardProductStatsRow{}
	productBase := func() *gorm.DB {
		return r.db.Model(&models.Product{})
	}

	if err := productBase().Count(&result.TotalProducts).Error; err != nil {
		return result, err
	}
	if err := productBase().Where("is_active = ?", true).Count(&result.ActiveProducts).Error; err != nil {
		return result, err
	}
	if err := productBase().Where(productHasImageSQL).Count(&result.WithImages).Error; err != nil {
		return result, err
	}
	if err := productBase().Where("is_try_on_enabled = ?", true).Count(&result.TryOnEnabled).Error; err != nil {
		return result, err
	}
	if err := productBase().Where("stock_quantity > 0 AND stock_quantity < ?", lowStockThreshold).Count(&result.LowStock).Error; err != nil {
		return result, err
	}
	if err := productBase().Where("stock_quantity = 0").Count(&result.OutOfStock).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetReviewStats 获取评价统计
func (r *GormDashboardRepository) GetReviewStats() (DashboardReviewStatsRow, error) {
	result := DashboardReviewStatsRow{}
	if err := r.db.Model(&models.ProductReview{}).Count(&result.TotalReviews).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.ProductReview{}).Where("is_approved = ?", false).Count(&result.PendingReviews).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.ProductReview{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&result.AvgRating).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderStats 获取订单统计（营收不含已取消订单）
func (r *GormDashboardRepository) GetOrderStats() (DashboardOrderStatsRow, error) {
	result := DashboardOrderStatsRow{}
	if err := r.db.Model(&models.Order{}).Count(&result.TotalOrders).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).Where("status = ?", constants.OrderStatusPending).Count(&result.PendingOrders).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetOrderTrends 获取按天汇总的订单趋势
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	rows := make([]DashboardOrderTrendRow, 0)
	dayExpr := dayExprByDialect(dbDialectName(r.db), "created_at")
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as orders, COALESCE(SUM(CASE WHEN status <> ? THEN total_amount ELSE 0 END), 0) as revenue", dayExpr), constants.OrderStatusCancelled).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopCategories 按商品数排行的分类
func (r *GormDashboardRepository) GetTopCategories(limit int) ([]DashboardRankingRow, error) {
	return r.rankByProductCount(&models.Category{}, "categories", "category_id", limit)
}

// GetTopBrands 按商品数排行的品牌
func (r *GormDashboardRepository) GetTopBrands(limit int) ([]DashboardRankingRow, error) {
	return r.rankByProductCount(&models.Brand{}, "brands", "brand_id", limit)
}

func (r *GormDashboardRepository) rankByProductCount(model interface{}, table, foreignKey string, limit int) ([]DashboardRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]DashboardRankingRow, 0)
	if err := r.db.Model(model).
		Select(fmt.Sprintf(`
			%[1]s.id as id,
			%[1]s.name as name,
			%[1]s.slug as slug,
			COUNT(products.id) as product_count,
			COALESCE(SUM(CASE WHEN products.is_active = ? THEN 1 ELSE 0 END), 0) as active_products
		`, table), true).
		Joins(fmt.Sprintf("LEFT JOIN products ON products.%s = %s.id AND products.deleted_at IS NULL", foreignKey, table)).
		Group(fmt.Sprintf("%[1]s.id, %[1]s.name, %[1]s.slug", table)).
		Order(fmt.Sprintf("product_count DESC, %s.id ASC", table)).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecentProducts 近期新增商品
func (r *GormDashboardRepository) ListRecentProducts(since time.Time, limit int) ([]models.Product, error) {
	return r.listProducts(r.db.Where("created_at >= ?", since).Order("created_at DESC, id DESC"), limit)
}

// ListProductsWithoutImages 无图片商品
func (r *GormDashboardRepository) ListProductsWithoutImages(limit int) ([]models.Product, error) {
	return r.listProducts(r.db.Where("NOT " + productHasImageSQL).Order("created_at DESC, id DESC"), limit)
}

// ListLowStockProducts 低库存商品（库存越少越靠前）
func (r *GormDashboardRepository) ListLowStockProducts(threshold, limit int) ([]models.Product, error) {
	return r.listProducts(r.db.Where("stock_quantity > 0 AND stock_quantity < ?", threshold).Order("stock_quantity ASC, id ASC"), limit)
}

// ListOutOfStockProducts 缺货商品
func (r *GormDashboardRepository) ListOutOfStockProducts(limit int) ([]models.Product, error) {
	return r.listProducts(r.db.Where("stock_quantity = 0").Order("updated_at DESC, id DESC"), limit)
}

func (r *GormDashboardRepository) listProducts(query *gorm.DB, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 5
	}
	products := make([]models.Product, 0)
	if err := query.Preload("Category").Preload("Brand").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetCatalogStats 前台目录统计（仅统计上架/展示中的数据）
func (r *GormDashboardRepository) GetCatalogStats() (CatalogStatsRow, error) {
	result := CatalogStatsRow{}
	activeProducts := func() *gorm.DB {
		return r.db.Model(&models.Product{}).Where("is_active = ?", true)
	}
	if err := activeProducts().Count(&result.TotalProducts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Category{}).Where("is_active = ?", true).Count(&result.TotalCategories).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Brand{}).Where("is_active = ?", true).Count(&result.TotalBrands).Error; err != nil {
		return result, err
	}
	if err := activeProducts().Where("is_featured = ?", true).Count(&result.FeaturedProducts).Error; err != nil {
		return result, err
	}
	if err := activeProducts().Where("is_try_on_enabled = ?", true).Count(&result.TryOnProducts).Error; err != nil {
		return result, err
	}
	return result, nil
}
