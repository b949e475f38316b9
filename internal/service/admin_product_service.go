package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/queue"
	"github.com/tryon-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	adminProductPageSize = 20
	productIndexDelay    = 2 * time.Second
)

// AdminProductQuery 后台商品列表查询
type AdminProductQuery struct {
	Page       int
	PageSize   int
	CategoryID uint
	BrandID    uint
	Status     string
	Search     string
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	CategoryID       uint
	BrandID          uint
	Price            string
	SalePrice        string
	Gender           string
	AvailableSizes   string
	AvailableColors  string
	StockQuantity    int
	IsAvailable      *bool
	IsTryOnEnabled   *bool
	TryOnCategory    string
	MetaTitle        string
	MetaDescription  string
	IsFeatured       *bool
	IsActive         *bool
}

// ProductImageInput 商品图片上传附加字段
type ProductImageInput struct {
	AltText   string
	IsPrimary bool
	SortOrder int
}

// AdminProductService 后台商品管理
type AdminProductService struct {
	uploadCfg     config.UploadConfig
	productRepo   repository.ProductRepository
	imageRepo     repository.ProductImageRepository
	categoryRepo  repository.CategoryRepository
	brandRepo     repository.BrandRepository
	uploadService *UploadService
	queueClient   *queue.Client
}

// NewAdminProductService 创建后台商品服务
func NewAdminProductService(
	uploadCfg config.UploadConfig,
	productRepo repository.ProductRepository,
	imageRepo repository.ProductImageRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	uploadService *UploadService,
	queueClient *queue.Client,
) *AdminProductService {
	return &AdminProductService{
		uploadCfg:     uploadCfg,
		productRepo:   productRepo,
		imageRepo:     imageRepo,
		categoryRepo:  categoryRepo,
		brandRepo:     brandRepo,
		uploadService: uploadService,
		queueClient:   queueClient,
	}
}

// List 后台商品列表，每页默认 20 条
func (s *AdminProductService) List(query AdminProductQuery) ([]ProductView, int64, error) {
	status := strings.ToLower(strings.TrimSpace(query.Status))
	switch status {
	case "", constants.AdminProductStatusActive, constants.AdminProductStatusInactive,
		constants.AdminProductStatusNoImages, constants.AdminProductStatusLowStock:
	default:
		return nil, 0, NewValidationError("status", "error.field_invalid")
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = adminProductPageSize
	}
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		Page:         query.Page,
		PageSize:     pageSize,
		CategoryID:   query.CategoryID,
		BrandID:      query.BrandID,
		AdminStatus:  status,
		Search:       strings.TrimSpace(query.Search),
		Sort:         constants.ProductSortNewest,
		WithRelation: true,
	})
	if err != nil {
		return nil, 0, err
	}
	return newProductViews(products), total, nil
}

// Get 后台商品详情
func (s *AdminProductService) Get(id uint) (*ProductView, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	view := NewProductView(product)
	return &view, nil
}

// Create 创建商品
func (s *AdminProductService) Create(ctx context.Context, input ProductInput) (*ProductView, error) {
	product := &models.Product{IsAvailable: true, IsActive: true}
	if err := s.applyProductInput(product, input, nil); err != nil {
		return nil, err
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if err := s.productRepo.Create(product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	s.afterProductsChanged(ctx, []uint{product.ID}, false)
	return s.Get(product.ID)
}

// Update 更新商品
func (s *AdminProductService) Update(ctx context.Context, id uint, input ProductInput) (*ProductView, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.applyProductInput(product, input, &id); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := s.productRepo.Update(product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	s.afterProductsChanged(ctx, []uint{id}, false)
	return s.Get(id)
}

// Delete 删除商品（软删除）
func (s *AdminProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.afterProductsChanged(ctx, []uint{id}, true)
	return nil
}

// BulkAction 批量操作，返回受影响的商品数
func (s *AdminProductService) BulkAction(ctx context.Context, action string, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, NewValidationError("product_ids", "error.bulk_ids_required")
	}

	action = strings.ToLower(strings.TrimSpace(action))
	if action == constants.BulkActionDelete {
		affected, err := s.productRepo.BulkDelete(ids)
		if err != nil {
			return 0, err
		}
		s.afterProductsChanged(ctx, ids, true)
		return affected, nil
	}

	updates, ok := bulkActionUpdates(action)
	if !ok {
		return 0, ErrInvalidBulkAction
	}
	updates["updated_at"] = time.Now()
	affected, err := s.productRepo.BulkUpdate(ids, updates)
	if err != nil {
		return 0, err
	}
	s.afterProductsChanged(ctx, ids, false)
	return affected, nil
}

// UploadImage 上传商品图片
// 设为主图时在同一事务内清除其它主图；缩放交给后台任务，失败不影响上传结果。
func (s *AdminProductService) UploadImage(ctx context.Context, productID uint, file *multipart.FileHeader, input ProductImageInput) (*models.ProductImage, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	uploaded, err := s.uploadService.SaveImage(ctx, file, UploadSceneProduct)
	if err != nil {
		return nil, err
	}

	image := &models.ProductImage{
		ProductID: productID,
		URL:       uploaded.URL,
		AltText:   strings.TrimSpace(input.AltText),
		IsPrimary: input.IsPrimary || len(product.Images) == 0,
		SortOrder: input.SortOrder,
		CreatedAt: time.Now(),
	}
	if image.AltText == "" {
		image.AltText = product.Name
	}
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		imageRepo := s.imageRepo.WithTx(tx)
		if err := imageRepo.Create(image); err != nil {
			return err
		}
		if image.IsPrimary {
			return imageRepo.ClearPrimary(productID, image.ID)
		}
		return nil
	})
	if err != nil {
		if delErr := s.uploadService.Delete(ctx, uploaded.Key); delErr != nil {
			logger.Warnw("product_image_rollback_delete_failed", "key", uploaded.Key, "error", delErr)
		}
		return nil, err
	}

	s.enqueueImageResize(uploaded.Key, s.uploadCfg.ProductImageMax)
	s.afterProductsChanged(ctx, []uint{productID}, false)
	return image, nil
}

// SetPrimaryImage 指定主图
func (s *AdminProductService) SetPrimaryImage(ctx context.Context, productID, imageID uint) (*models.ProductImage, error) {
	image, err := s.imageRepo.GetByID(imageID)
	if err != nil {
		return nil, err
	}
	if image == nil || image.ProductID != productID {
		return nil, ErrImageNotFound
	}
	image.IsPrimary = true
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		imageRepo := s.imageRepo.WithTx(tx)
		if err := imageRepo.Update(image); err != nil {
			return err
		}
		return imageRepo.ClearPrimary(productID, image.ID)
	})
	if err != nil {
		return nil, err
	}
	s.afterProductsChanged(ctx, []uint{productID}, false)
	return image, nil
}

func (s *AdminProductService) applyProductInput(product *models.Product, input ProductInput, excludeID *uint) error {
	verr := &ValidationError{}

	name, slug, err := normalizeNameAndSlug(input.Name, input.Slug)
	if err != nil {
		if fieldErr, ok := AsValidationError(err); ok {
			for field, key := range fieldErr.Fields {
				verr.Add(field, key)
			}
		}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || !price.IsPositive() {
		verr.Add("price", "error.positive_number")
	}
	var salePrice *models.Money
	if raw := strings.TrimSpace(input.SalePrice); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			verr.Add("sale_price", "error.field_invalid")
		} else {
			money := models.NewMoneyFromDecimal(value)
			salePrice = &money
		}
	}

	gender := strings.ToUpper(strings.TrimSpace(input.Gender))
	if gender == "" {
		gender = constants.GenderUnisex
	}
	if !containsString(constants.ProductGenders(), gender) {
		verr.Add("gender", "error.gender_invalid")
	}
	tryOnCategory := strings.ToLower(strings.TrimSpace(input.TryOnCategory))
	if tryOnCategory == "" {
		tryOnCategory = constants.TryOnCategoryTops
	}
	if !containsString(constants.TryOnCategories(), tryOnCategory) {
		verr.Add("try_on_category", "error.field_invalid")
	}
	if input.StockQuantity < 0 {
		verr.Add("stock_quantity", "error.field_invalid")
	}
	if input.CategoryID == 0 {
		verr.Add("category_id", "error.field_required")
	}
	if input.BrandID == 0 {
		verr.Add("brand_id", "error.field_required")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	brand, err := s.brandRepo.GetByID(input.BrandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	count, err := s.productRepo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}

	product.Name = name
	product.Slug = slug
	product.Description = strings.TrimSpace(input.Description)
	product.ShortDescription = strings.TrimSpace(input.ShortDescription)
	product.CategoryID = category.ID
	product.BrandID = brand.ID
	product.Category = nil
	product.Brand = nil
	product.Price = models.NewMoneyFromDecimal(price)
	product.SalePrice = salePrice
	product.Gender = gender
	product.AvailableSizes = normalizeOptionList(input.AvailableSizes, "S,M,L,XL")
	product.AvailableColors = normalizeOptionList(input.AvailableColors, "Black,White")
	product.StockQuantity = input.StockQuantity
	product.IsAvailable = boolOrDefault(input.IsAvailable, product.IsAvailable)
	product.IsTryOnEnabled = boolOrDefault(input.IsTryOnEnabled, product.IsTryOnEnabled)
	product.TryOnCategory = tryOnCategory
	product.MetaTitle = strings.TrimSpace(input.MetaTitle)
	product.MetaDescription = strings.TrimSpace(input.MetaDescription)
	product.IsFeatured = boolOrDefault(input.IsFeatured, product.IsFeatured)
	product.IsActive = boolOrDefault(input.IsActive, product.IsActive)
	return nil
}

func (s *AdminProductService) afterProductsChanged(ctx context.Context, ids []uint, deleted bool) {
	for _, id := range ids {
		if err := s.queueClient.EnqueueProductIndex(queue.ProductIndexPayload{ProductID: id, Delete: deleted}, productIndexDelay); err != nil {
			logger.Warnw("product_index_enqueue_failed", "product_id", id, "error", err)
		}
	}
	invalidateDashboard(ctx)
}

func (s *AdminProductService) enqueueImageResize(key string, maxSize int) {
	if !s.queueClient.Enabled() {
		logger.Debugw("image_resize_skipped_queue_disabled", "key", key)
		return
	}
	if err := s.queueClient.EnqueueImageResize(queue.ImageResizePayload{Key: key, MaxSize: maxSize}); err != nil {
		logger.Warnw("image_resize_enqueue_failed", "key", key, "error", err)
	}
}

func bulkActionUpdates(action string) (map[string]interface{}, bool) {
	switch action {
	case constants.BulkActionActivate:
		return map[string]interface{}{"is_active": true}, true
	case constants.BulkActionDeactivate:
		return map[string]interface{}{"is_active": false}, true
	case constants.BulkActionFeature:
		return map[string]interface{}{"is_featured": true}, true
	case constants.BulkActionUnfeature:
		return map[string]interface{}{"is_featured": false}, true
	case constants.BulkActionEnableTryOn:
		return map[string]interface{}{"is_try_on_enabled": true}, true
	case constants.BulkActionDisableTryOn:
		return map[string]interface{}{"is_try_on_enabled": false}, true
	default:
		return nil, false
	}
}

// normalizeOptionList 去除空白项后重新拼接，全空时使用默认值
func normalizeOptionList(raw, fallback string) string {
	items := models.SplitOptionList(raw)
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ",")
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
