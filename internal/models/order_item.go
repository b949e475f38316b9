package models

import "time"

// OrderItem 订单项表（商品信息在下单时冻结）
type OrderItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID       uint      `gorm:"index;not null" json:"order_id"`                           // 订单ID
	ProductID     uint      `gorm:"index;not null" json:"product_id"`                         // 商品ID
	Quantity      int       `gorm:"not null" json:"quantity"`                                 // 数量
	ProductName   string    `gorm:"type:varchar(200);not null" json:"product_name"`           // 商品名称快照
	ProductSKU    string    `gorm:"column:product_sku;type:varchar(100)" json:"product_sku"`  // 商品编码快照
	SelectedSize  string    `gorm:"type:varchar(10)" json:"selected_size"`                    // 所选尺码
	SelectedColor string    `gorm:"type:varchar(50)" json:"selected_color"`                   // 所选颜色
	UnitPrice     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"`  // 单价
	TotalPrice    Money     `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"` // 小计
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
