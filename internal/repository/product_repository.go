package repository

import (
	"errors"
	"strings"

	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetBySlug(slug string, onlyActive bool) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	CountBySlug(slug string, excludeID *uint) (int64, error)
	IncrementViewCount(id uint) error
	BulkUpdate(ids []uint, updates map[string]interface{}) (int64, error)
	BulkDelete(ids []uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// Transaction 执行事务
func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, created_at ASC, id ASC")
}

// List 商品列表：先过滤、再排序，最后截取 limit 或分页
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	var products []models.Product

	query := r.applyFilter(r.db.Model(&models.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(productSortClause(filter.Sort))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
		if total > int64(filter.Limit) {
			total = int64(filter.Limit)
		}
	} else {
		query = query.Scopes(paginate(filter.Page, filter.PageSize))
	}

	if filter.WithRelation {
		query = query.Preload("Category").Preload("Brand").Preload("Images", preloadImages)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter ProductListFilter) *gorm.DB {
	if filter.OnlyActive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategoryID != 0 {
		query = query.Where("products.category_id = ?", filter.CategoryID)
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("products.category_id IN (?)", r.db.Model(&models.Category{}).Select("id").Where("slug = ?", slug))
	}
	if filter.BrandID != 0 {
		query = query.Where("products.brand_id = ?", filter.BrandID)
	}
	if slug := strings.TrimSpace(filter.BrandSlug); slug != "" {
		query = query.Where("products.brand_id IN (?)", r.db.Model(&models.Brand{}).Select("id").Where("slug = ?", slug))
	}
	if gender := strings.TrimSpace(filter.Gender); gender != "" {
		query = query.Where("products.gender = ?", gender)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	if filter.Featured {
		query = query.Where("products.is_featured = ?", true)
	}

	if filter.SearchIDs != nil {
		query = query.Where("products.id IN ?", append([]uint{0}, filter.SearchIDs...))
	} else if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"products.name", "products.description"})
		brandCondition, brandArgs := buildLikeCondition(r.db, []string{"name"})
		brandIDs := r.db.Model(&models.Brand{}).Select("id").Where(brandCondition, repeatLikeArgs(like, brandArgs)...)
		args := append(repeatLikeArgs(like, argCount), brandIDs)
		query = query.Where("("+condition+" OR products.brand_id IN (?))", args...)
	}

	switch strings.ToLower(strings.TrimSpace(filter.AdminStatus)) {
	case constants.AdminProductStatusActive:
		query = query.Where("products.is_active = ?", true)
	case constants.AdminProductStatusInactive:
		query = query.Where("products.is_active = ?", false)
	case constants.AdminProductStatusNoImages:
		query = query.Where("NOT EXISTS (SELECT 1 FROM product_images pi WHERE pi.product_id = products.id)")
	case constants.AdminProductStatusLowStock:
		query = query.Where("products.stock_quantity > 0 AND products.stock_quantity < ?", constants.LowStockThreshold)
	}
	return query
}

// productSortClause 排序键映射到 SQL，未知键按名称排序
func productSortClause(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case constants.ProductSortPriceLow:
		return "products.price ASC, products.id ASC"
	case constants.ProductSortPriceHigh:
		return "products.price DESC, products.id ASC"
	case constants.ProductSortNewest:
		return "products.created_at DESC, products.id DESC"
	case constants.ProductSortPopular:
		return "products.view_count DESC, products.id ASC"
	default:
		return "products.name ASC, products.id ASC"
	}
}

// GetBySlug 根据 slug 获取商品（含分类、品牌、图片与已审核评价）
func (r *GormProductRepository) GetBySlug(slug string, onlyActive bool) (*models.Product, error) {
	query := r.db.Preload("Category").
		Preload("Brand").
		Preload("Images", preloadImages).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_approved = ?", true).Order("created_at DESC")
		}).
		Preload("Reviews.User").
		Where("slug = ?", slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").
		Preload("Brand").
		Preload("Images", preloadImages).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByIDs 批量获取商品
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := r.db.Preload("Brand").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Omit("Category", "Brand", "Images", "Reviews").Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// CountBySlug 统计 slug 数量
func (r *GormProductRepository) CountBySlug(slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementViewCount 浏览量 +1（不触发 updated_at）
func (r *GormProductRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// BulkUpdate 批量更新商品字段，返回受影响行数
func (r *GormProductRepository) BulkUpdate(ids []uint, updates map[string]interface{}) (int64, error) {
	if len(ids) == 0 || len(updates) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Product{}).Where("id IN ?", ids).Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// BulkDelete 批量删除商品（软删除）
func (r *GormProductRepository) BulkDelete(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.Product{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
