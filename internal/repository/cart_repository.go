package repository

import (
	"errors"

	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetOrCreate(userID uint) (*models.Cart, error)
	GetItem(cartID, productID uint, size, color string) (*models.CartItem, error)
	GetItemForUser(itemID, userID uint) (*models.CartItem, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	MergeItemQuantity(itemID uint, delta int, max int) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) (int64, error)
	DeleteItems(cartID uint, itemIDs []uint) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUser 获取用户购物车，不存在返回 nil
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate 获取或创建用户购物车
// 并发创建时唯一索引冲突，失败方重新读取即可。
func (r *GormCartRepository) GetOrCreate(userID uint) (*models.Cart, error) {
	cart, err := r.GetByUser(userID)
	if err != nil || cart != nil {
		return cart, err
	}
	cart = &models.Cart{UserID: userID}
	if createErr := r.db.Create(cart).Error; createErr != nil {
		existing, getErr := r.GetByUser(userID)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, createErr
		}
		return existing, nil
	}
	return cart, nil
}

// GetItem 按 (购物车, 商品, 尺码, 颜色) 获取购物车项
func (r *GormCartRepository) GetItem(cartID, productID uint, size, color string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ? AND selected_size = ? AND selected_color = ?",
		cartID, productID, size, color).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemForUser 获取属于该用户的购物车项，他人的项视为不存在
func (r *GormCartRepository) GetItemForUser(itemID, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListItems 获取购物车项（含商品与图片）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").
		Preload("Product.Brand").
		Preload("Product.Images", preloadImages).
		Where("cart_id = ?", cartID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Omit("Product").Create(item).Error
}

// UpdateItemQuantity 设置购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error
}

// MergeItemQuantity 数量累加并封顶，在单条 UPDATE 内完成以避免并发丢失
func (r *GormCartRepository) MergeItemQuantity(itemID uint, delta int, max int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).
		Update("quantity", gorm.Expr("CASE WHEN quantity + ? > ? THEN ? ELSE quantity + ? END", delta, max, max, delta)).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems 清空购物车项，返回删除行数
func (r *GormCartRepository) ClearItems(cartID uint) (int64, error) {
	result := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteItems 删除购物车中指定的项，返回实际删除行数
func (r *GormCartRepository) DeleteItems(cartID uint, itemIDs []uint) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.Where("cart_id = ? AND id IN ?", cartID, itemIDs).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
