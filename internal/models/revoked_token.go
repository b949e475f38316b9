package models

import "time"

// RevokedToken 已吊销的刷新令牌（Redis 不可用时的兜底黑名单）
type RevokedToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                        // 主键
	JTI       string    `gorm:"column:jti;type:varchar(64);uniqueIndex;not null" json:"jti"` // 令牌ID
	UserID    uint      `gorm:"not null;index" json:"user_id"`                               // 用户ID
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`                            // 令牌原过期时间
	CreatedAt time.Time `json:"created_at"`                                                  // 吊销时间
}

// TableName 指定表名
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
