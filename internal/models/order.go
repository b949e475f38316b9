package models

import "time"

// Order 订单表
type Order struct {
	ID              uint       `gorm:"primarykey" json:"id"`                                                                                // 主键
	OrderNumber     string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`                                           // 订单编号
	UserID          uint       `gorm:"not null;index:idx_order_user_created,priority:1" json:"user_id"`                                     // 用户ID
	Status          string     `gorm:"type:varchar(20);not null;index:idx_order_status_created,priority:1" json:"status"`                   // 订单状态
	PaymentStatus   string     `gorm:"type:varchar(20);not null;index" json:"payment_status"`                                               // 支付状态（仅管理员可改）
	Subtotal        Money      `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`                                               // 商品小计
	TaxAmount       Money      `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`                                             // 税额
	ShippingAmount  Money      `gorm:"type:decimal(10,2);not null;default:0" json:"shipping_amount"`                                        // 运费
	DiscountAmount  Money      `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`                                        // 优惠金额
	TotalAmount     Money      `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`                                           // 实付金额
	ShippingAddress string     `gorm:"type:text;not null" json:"shipping_address"`                                                          // 收货地址快照
	ShippingCity    string     `gorm:"type:varchar(100);not null" json:"shipping_city"`                                                     // 收货城市
	ShippingState   string     `gorm:"type:varchar(100);not null" json:"shipping_state"`                                                    // 收货省/邦
	ShippingPostal  string     `gorm:"column:shipping_postal_code;type:varchar(10);not null" json:"shipping_postal_code"`                   // 收货邮编
	ShippingCountry string     `gorm:"type:varchar(100);not null" json:"shipping_country"`                                                  // 收货国家
	BillingAddress  string     `gorm:"type:text;not null" json:"billing_address"`                                                           // 账单地址快照
	BillingCity     string     `gorm:"type:varchar(100);not null" json:"billing_city"`                                                      // 账单城市
	BillingState    string     `gorm:"type:varchar(100);not null" json:"billing_state"`                                                     // 账单省/邦
	BillingPostal   string     `gorm:"column:billing_postal_code;type:varchar(10);not null" json:"billing_postal_code"`                     // 账单邮编
	BillingCountry  string     `gorm:"type:varchar(100);not null" json:"billing_country"`                                                   // 账单国家
	PhoneNumber     string     `gorm:"type:varchar(15);not null" json:"phone_number"`                                                       // 联系电话
	Email           string     `gorm:"type:varchar(254);not null" json:"email"`                                                             // 联系邮箱
	Notes           string     `gorm:"type:text" json:"notes"`                                                                              // 订单备注
	CreatedAt       time.Time  `gorm:"index:idx_order_user_created,priority:2;index:idx_order_status_created,priority:2" json:"created_at"` // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                                                                          // 更新时间
	ShippedAt       *time.Time `json:"shipped_at"`                                                                                          // 发货时间
	DeliveredAt     *time.Time `json:"delivered_at"`                                                                                        // 签收时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// TotalItems 订单商品总件数
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
