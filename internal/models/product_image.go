package models

import "time"

// ProductImage 商品图片
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                           // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`               // 商品ID
	URL       string    `gorm:"type:varchar(500);not null" json:"url"`          // 图片地址（存储 key 对应的访问路径）
	AltText   string    `gorm:"type:varchar(200)" json:"alt_text"`              // 无障碍替代文本
	IsPrimary bool      `gorm:"not null;default:false;index" json:"is_primary"` // 是否主图
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`           // 排序
	CreatedAt time.Time `gorm:"index" json:"created_at"`                        // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
