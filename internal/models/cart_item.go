package models

import "time"

// CartItem 购物车项（同一商品的不同尺码/颜色各占一行）
type CartItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                                                                   // 主键
	CartID        uint      `gorm:"not null;uniqueIndex:idx_cart_item_option,priority:1" json:"cart_id"`                                    // 购物车ID
	ProductID     uint      `gorm:"not null;uniqueIndex:idx_cart_item_option,priority:2;index" json:"product_id"`                           // 商品ID
	Quantity      int       `gorm:"not null" json:"quantity"`                                                                               // 数量 1-99
	SelectedSize  string    `gorm:"type:varchar(10);not null;default:'';uniqueIndex:idx_cart_item_option,priority:3" json:"selected_size"`  // 所选尺码
	SelectedColor string    `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_cart_item_option,priority:4" json:"selected_color"` // 所选颜色
	UnitPrice     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`                                                // 加购时单价快照
	CreatedAt     time.Time `gorm:"index" json:"added_at"`                                                                                  // 加购时间
	UpdatedAt     time.Time `json:"updated_at"`                                                                                             // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// TotalPrice 单价 × 数量
func (i *CartItem) TotalPrice() Money {
	return i.UnitPrice.Times(i.Quantity)
}
