package models

import "time"

// ProductReview 商品评价（每个用户对同一商品仅一条）
type ProductReview struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                                              // 主键
	ProductID          uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`    // 商品ID
	UserID             uint      `gorm:"not null;uniqueIndex:idx_review_product_user;index" json:"user_id"` // 用户ID
	Rating             int       `gorm:"not null" json:"rating"`                                            // 评分 1-5
	Title              string    `gorm:"type:varchar(200);not null" json:"title"`                           // 评价标题
	Content            string    `gorm:"type:text;not null" json:"content"`                                 // 评价内容
	SizePurchased      string    `gorm:"type:varchar(10)" json:"size_purchased"`                            // 购买尺码
	ColorPurchased     string    `gorm:"type:varchar(50)" json:"color_purchased"`                           // 购买颜色
	IsApproved         bool      `gorm:"not null;index" json:"is_approved"`                                 // 是否审核通过
	IsVerifiedPurchase bool      `gorm:"not null;default:false" json:"is_verified_purchase"`                // 是否已购
	CreatedAt          time.Time `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt          time.Time `json:"updated_at"`                                                        // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 评价用户
}

// TableName 指定表名
func (ProductReview) TableName() string {
	return "product_reviews"
}
