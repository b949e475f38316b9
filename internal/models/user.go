package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                   // 主键
	Username           string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"` // 用户名
	Email              string         `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`    // 邮箱
	FirstName          string         `gorm:"type:varchar(150)" json:"first_name"`                    // 名
	LastName           string         `gorm:"type:varchar(150)" json:"last_name"`                     // 姓
	PasswordHash       string         `gorm:"not null" json:"-"`                                      // 密码哈希（不返回给前端）
	IsActive           bool           `gorm:"not null" json:"is_active"`                              // 账号是否启用
	IsStaff            bool           `gorm:"not null;default:false" json:"is_staff"`                 // 是否员工账号
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                            // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                         // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                          // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"date_joined"`                               // 注册时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                         // 软删除时间

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"` // 扩展资料
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 姓名拼接
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
