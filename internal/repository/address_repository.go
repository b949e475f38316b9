package repository

import (
	"errors"

	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 收货地址数据访问接口（所有查询都按用户隔离）
type AddressRepository interface {
	ListByUser(userID uint) ([]models.ShippingAddress, error)
	GetByIDAndUser(id, userID uint) (*models.ShippingAddress, error)
	Create(address *models.ShippingAddress) error
	Update(address *models.ShippingAddress) error
	DeleteByIDAndUser(id, userID uint) (int64, error)
	ClearDefault(userID uint, exceptID uint) error
	SetDefault(id, userID uint) (int64, error)
	CountByUser(userID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) AddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAddressRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListByUser 用户地址列表，默认地址在前，其余按创建时间倒序
func (r *GormAddressRepository) ListByUser(userID uint) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC, id DESC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// GetByIDAndUser 获取用户的地址
func (r *GormAddressRepository) GetByIDAndUser(id, userID uint) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.ShippingAddress) error {
	return r.db.Create(address).Error
}

// Update 更新地址
func (r *GormAddressRepository) Update(address *models.ShippingAddress) error {
	return r.db.Save(address).Error
}

// DeleteByIDAndUser 删除用户的地址
func (r *GormAddressRepository) DeleteByIDAndUser(id, userID uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.ShippingAddress{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ClearDefault 清除用户其它地址的默认标记
func (r *GormAddressRepository) ClearDefault(userID uint, exceptID uint) error {
	query := r.db.Model(&models.ShippingAddress{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_default", false).Error
}

// SetDefault 标记默认地址
func (r *GormAddressRepository) SetDefault(id, userID uint) (int64, error) {
	result := r.db.Model(&models.ShippingAddress{}).Where("id = ? AND user_id = ?", id, userID).Update("is_default", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByUser 统计用户地址数
func (r *GormAddressRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ShippingAddress{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
