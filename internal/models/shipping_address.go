package models

import "time"

// ShippingAddress 收货地址
type ShippingAddress struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                               // 主键
	UserID       uint      `gorm:"not null;index:idx_address_user_default,priority:1" json:"-"`                        // 用户ID
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`                                             // 收件人
	AddressLine1 string    `gorm:"column:address_line_1;type:varchar(255);not null" json:"address_line_1"`             // 地址行 1
	AddressLine2 string    `gorm:"column:address_line_2;type:varchar(255)" json:"address_line_2"`                      // 地址行 2
	City         string    `gorm:"type:varchar(100);not null" json:"city"`                                             // 城市
	State        string    `gorm:"type:varchar(100);not null" json:"state"`                                            // 省/邦
	PostalCode   string    `gorm:"type:varchar(10);not null" json:"postal_code"`                                       // 邮编
	Country      string    `gorm:"type:varchar(100);not null;default:'India'" json:"country"`                          // 国家
	PhoneNumber  string    `gorm:"type:varchar(15);not null" json:"phone_number"`                                      // 联系电话
	IsDefault    bool      `gorm:"not null;default:false;index:idx_address_user_default,priority:2" json:"is_default"` // 是否默认地址
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                                            // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                                         // 更新时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}

// Line 单行展示的完整地址
func (a *ShippingAddress) Line() string {
	if a.AddressLine2 == "" {
		return a.AddressLine1
	}
	return a.AddressLine1 + ", " + a.AddressLine2
}
