package models

import (
	"time"

	"gorm.io/gorm"
)

// Brand 品牌表
type Brand struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 品牌名称
	Slug        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"` // 唯一标识
	Description string         `gorm:"type:text" json:"description"`                       // 品牌描述
	Logo        string         `gorm:"type:varchar(500)" json:"logo"`                      // 品牌 Logo
	Website     string         `gorm:"type:varchar(500)" json:"website"`                   // 官网地址
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                    // 是否展示
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}
