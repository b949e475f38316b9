package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 支付状态常量（仅记录，不对接支付网关）
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// 商品适用人群
const (
	GenderMen    = "M"
	GenderWomen  = "F"
	GenderUnisex = "U"
	GenderKids   = "K"
)

// 用户资料性别
const (
	ProfileGenderMale         = "M"
	ProfileGenderFemale       = "F"
	ProfileGenderOther        = "O"
	ProfileGenderPreferNotSay = "P"
)

// 试穿分类
const (
	TryOnCategoryTops        = "tops"
	TryOnCategoryBottoms     = "bottoms"
	TryOnCategoryDresses     = "dresses"
	TryOnCategoryOuterwear   = "outerwear"
	TryOnCategoryAccessories = "accessories"
)

// 商品列表排序
const (
	ProductSortName      = "name"
	ProductSortPriceLow  = "price_low"
	ProductSortPriceHigh = "price_high"
	ProductSortNewest    = "newest"
	ProductSortPopular   = "popular"
)

// 后台商品批量操作
const (
	BulkActionActivate     = "activate"
	BulkActionDeactivate   = "deactivate"
	BulkActionFeature      = "feature"
	BulkActionUnfeature    = "unfeature"
	BulkActionEnableTryOn  = "enable_try_on"
	BulkActionDisableTryOn = "disable_try_on"
	BulkActionDelete       = "delete"
)

// 后台商品状态筛选
const (
	AdminProductStatusActive   = "active"
	AdminProductStatusInactive = "inactive"
	AdminProductStatusNoImages = "no_images"
	AdminProductStatusLowStock = "low_stock"
)

// Token 类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 库存预警阈值
const LowStockThreshold = 10

// 领域事件类型
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

// ValidOrderStatuses 订单状态全集
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
}

// ValidPaymentStatuses 支付状态全集
func ValidPaymentStatuses() []string {
	return []string{
		PaymentStatusPending,
		PaymentStatusProcessing,
		PaymentStatusCompleted,
		PaymentStatusFailed,
		PaymentStatusRefunded,
	}
}

// CancellableOrderStatuses 允许用户取消的订单状态
func CancellableOrderStatuses() []string {
	return []string{OrderStatusPending, OrderStatusConfirmed}
}

// ProductGenders 商品适用人群全集
func ProductGenders() []string {
	return []string{GenderMen, GenderWomen, GenderUnisex, GenderKids}
}

// TryOnCategories 试穿分类全集
func TryOnCategories() []string {
	return []string{
		TryOnCategoryTops,
		TryOnCategoryBottoms,
		TryOnCategoryDresses,
		TryOnCategoryOuterwear,
		TryOnCategoryAccessories,
	}
}

// ProfileGenders 用户资料性别全集
func ProfileGenders() []string {
	return []string{ProfileGenderMale, ProfileGenderFemale, ProfileGenderOther, ProfileGenderPreferNotSay}
}

// ClothingSizes 用户偏好尺码全集
func ClothingSizes() []string {
	return []string{"XS", "S", "M", "L", "XL", "XXL"}
}

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderStatusNotify = "order:status_notify"
	TaskImageResize       = "image:resize"
	TaskProductIndex      = "search:product_index"
)
