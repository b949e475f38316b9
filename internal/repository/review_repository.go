package repository

import (
	"errors"

	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 商品评价数据访问接口
type ReviewRepository interface {
	ListApprovedByProduct(productID uint) ([]models.ProductReview, error)
	List(filter ReviewListFilter) ([]models.ProductReview, int64, error)
	GetByID(id uint) (*models.ProductReview, error)
	GetByProductAndUser(productID, userID uint) (*models.ProductReview, error)
	Create(review *models.ProductReview) error
	UpdateApproval(id uint, approved bool) (int64, error)
	CountByUser(userID uint) (int64, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// ListApprovedByProduct 获取商品已审核的评价（最新在前）
func (r *GormReviewRepository) ListApprovedByProduct(productID uint) ([]models.ProductReview, error) {
	var reviews []models.ProductReview
	if err := r.db.Preload("User").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// List 管理端评价列表
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.ProductReview, int64, error) {
	query := r.db.Model(&models.ProductReview{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.IsApproved != nil {
		query = query.Where("is_approved = ?", *filter.IsApproved)
	}
	if filter.Rating > 0 {
		query = query.Where("rating = ?", filter.Rating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	var reviews []models.ProductReview
	if err := query.Preload("User").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetByID 根据 ID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.ProductReview, error) {
	var review models.ProductReview
	if err := r.db.Preload("User").First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// GetByProductAndUser 获取用户对某商品的评价
func (r *GormReviewRepository) GetByProductAndUser(productID, userID uint) (*models.ProductReview, error) {
	var review models.ProductReview
	if err := r.db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.ProductReview) error {
	return r.db.Create(review).Error
}

// UpdateApproval 更新审核状态
func (r *GormReviewRepository) UpdateApproval(id uint, approved bool) (int64, error) {
	result := r.db.Model(&models.ProductReview{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByUser 统计用户评价数
func (r *GormReviewRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ProductReview{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
