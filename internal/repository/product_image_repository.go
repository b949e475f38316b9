package repository

import (
	"errors"

	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
)

// ProductImageRepository 商品图片数据访问接口
type ProductImageRepository interface {
	ListByProduct(productID uint) ([]models.ProductImage, error)
	GetByID(id uint) (*models.ProductImage, error)
	Create(image *models.ProductImage) error
	Update(image *models.ProductImage) error
	Delete(id uint) error
	ClearPrimary(productID uint, exceptID uint) error
	WithTx(tx *gorm.DB) ProductImageRepository
}

// GormProductImageRepository GORM 实现
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewProductImageRepository 创建商品图片仓库
func NewProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductImageRepository) WithTx(tx *gorm.DB) ProductImageRepository {
	if tx == nil {
		return r
	}
	return &GormProductImageRepository{db: tx}
}

// ListByProduct 获取商品图片（按排序值、创建时间）
func (r *GormProductImageRepository) ListByProduct(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := preloadImages(r.db.Where("product_id = ?", productID)).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// GetByID 根据 ID 获取图片
func (r *GormProductImageRepository) GetByID(id uint) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// Create 创建图片
func (r *GormProductImageRepository) Create(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// Update 更新图片
func (r *GormProductImageRepository) Update(image *models.ProductImage) error {
	return r.db.Save(image).Error
}

// Delete 删除图片
func (r *GormProductImageRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProductImage{}, id).Error
}

// ClearPrimary 取消该商品其它图片的主图标记
func (r *GormProductImageRepository) ClearPrimary(productID uint, exceptID uint) error {
	query := r.db.Model(&models.ProductImage{}).Where("product_id = ? AND is_primary = ?", productID, true)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_primary", false).Error
}
