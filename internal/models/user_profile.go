package models

import "time"

// UserProfile 用户扩展资料（与用户一对一，注册时显式创建）
type UserProfile struct {
	ID            uint       `gorm:"primarykey" json:"id"`                  // 主键
	UserID        uint       `gorm:"not null;uniqueIndex" json:"user_id"`   // 用户ID
	PhoneNumber   string     `gorm:"type:varchar(15)" json:"phone_number"`  // 手机号
	DateOfBirth   *time.Time `gorm:"type:date" json:"date_of_birth"`        // 出生日期
	Avatar        string     `gorm:"type:varchar(500)" json:"avatar"`       // 头像地址
	Height        *int       `json:"height"`                                // 身高（厘米）
	Weight        *int       `json:"weight"`                                // 体重（千克）
	Gender        string     `gorm:"type:varchar(1)" json:"gender"`         // 性别 M/F/O/P
	PreferredSize string     `gorm:"type:varchar(5)" json:"preferred_size"` // 常穿尺码
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`               // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                            // 更新时间
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profiles"
}
