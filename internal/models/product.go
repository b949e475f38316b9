package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表（可试穿的服饰）
type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                                                                                                          // 主键
	Name             string         `gorm:"type:varchar(200);not null;index" json:"name"`                                                                                                                  // 商品名称
	Slug             string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`                                                                                                            // 唯一标识
	Description      string         `gorm:"type:text" json:"description"`                                                                                                                                  // 详细描述
	ShortDescription string         `gorm:"type:varchar(255)" json:"short_description"`                                                                                                                    // 列表简介
	CategoryID       uint           `gorm:"not null;index:idx_product_category_active,priority:1" json:"category_id"`                                                                                      // 分类ID
	BrandID          uint           `gorm:"not null;index:idx_product_brand_active,priority:1" json:"brand_id"`                                                                                            // 品牌ID
	Price            Money          `gorm:"type:decimal(10,2);not null;default:0;index" json:"price"`                                                                                                      // 原价
	SalePrice        *Money         `gorm:"type:decimal(10,2)" json:"sale_price"`                                                                                                                          // 促销价（可空）
	Gender           string         `gorm:"type:varchar(1);not null;default:'U'" json:"gender"`                                                                                                            // 适用人群 M/F/U/K
	AvailableSizes   string         `gorm:"type:varchar(50);not null;default:'S,M,L,XL'" json:"available_sizes"`                                                                                           // 可选尺码（逗号分隔）
	AvailableColors  string         `gorm:"type:varchar(100);not null;default:'Black,White'" json:"available_colors"`                                                                                      // 可选颜色（逗号分隔）
	StockQuantity    int            `gorm:"not null;default:0" json:"stock_quantity"`                                                                                                                      // 库存数量
	IsAvailable      bool           `gorm:"not null" json:"is_available"`                                                                                                                                  // 是否可售
	IsTryOnEnabled   bool           `gorm:"not null" json:"is_try_on_enabled"`                                                                                                                             // 是否支持虚拟试穿
	TryOnCategory    string         `gorm:"type:varchar(50);not null;default:'tops'" json:"try_on_category"`                                                                                               // 试穿分类
	MetaTitle        string         `gorm:"type:varchar(200)" json:"meta_title"`                                                                                                                           // SEO 标题
	MetaDescription  string         `gorm:"type:varchar(300)" json:"meta_description"`                                                                                                                     // SEO 描述
	ViewCount        int64          `gorm:"not null;default:0" json:"view_count"`                                                                                                                          // 浏览量（热度排序）
	IsFeatured       bool           `gorm:"not null;default:false;index:idx_product_featured_active,priority:1" json:"is_featured"`                                                                        // 是否推荐
	IsActive         bool           `gorm:"not null;index:idx_product_category_active,priority:2;index:idx_product_brand_active,priority:2;index:idx_product_featured_active,priority:2" json:"is_active"` // 是否上架
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                                                                                                                       // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                                                                                                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                                                                                                                // 软删除时间

	// 关联
	Category *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Brand    *Brand          `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌信息
	Images   []ProductImage  `gorm:"foreignKey:ProductID" json:"images,omitempty"`    // 商品图片
	Reviews  []ProductReview `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`   // 商品评价
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// CurrentPrice 当前售价：促销价存在且低于原价时取促销价
func (p *Product) CurrentPrice() Money {
	if p.IsOnSale() {
		return *p.SalePrice
	}
	return p.Price
}

// IsOnSale 是否处于促销
func (p *Product) IsOnSale() bool {
	return p.SalePrice != nil && p.SalePrice.Below(p.Price)
}

// DiscountPercentage 折扣百分比（向下取整）
func (p *Product) DiscountPercentage() int {
	if !p.IsOnSale() || !p.Price.IsPositive() {
		return 0
	}
	pct := p.Price.Sub(p.SalePrice.Decimal).Div(p.Price.Decimal).Mul(decimal.NewFromInt(100))
	return int(pct.IntPart())
}

// SizeList 可选尺码列表
func (p *Product) SizeList() []string {
	return SplitOptionList(p.AvailableSizes)
}

// ColorList 可选颜色列表
func (p *Product) ColorList() []string {
	return SplitOptionList(p.AvailableColors)
}

// PrimaryImage 主图，没有主图时取第一张
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// SplitOptionList 拆分逗号分隔的选项，去除空白项
func SplitOptionList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		result = append(result, value)
	}
	return result
}
