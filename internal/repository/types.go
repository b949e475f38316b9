package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	Limit        int // 排序后截取前 N 条（与分页互斥，优先于分页）
	CategorySlug string
	CategoryID   uint
	BrandSlug    string
	BrandID      uint
	Gender       string
	Search       string
	SearchIDs    []uint // 搜索引擎命中的商品 ID，非空时替代 LIKE 搜索
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Featured     bool
	OnlyActive   bool
	AdminStatus  string // active / inactive / no_images / low_stock
	Sort         string
	WithRelation bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	PaymentStatus string
	OrderNumber   string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	IsActive    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page       int
	PageSize   int
	ProductID  uint
	IsApproved *bool
	Rating     int
}
