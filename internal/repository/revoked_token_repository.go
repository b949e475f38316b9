package repository

import (
	"time"

	"github.com/tryon-shop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedTokenRepository 刷新令牌黑名单（数据库兜底）
type RevokedTokenRepository interface {
	Revoke(token *models.RevokedToken) error
	IsRevoked(jti string) (bool, error)
	PurgeExpired(now time.Time) (int64, error)
}

// GormRevokedTokenRepository GORM 实现
type GormRevokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository 创建令牌黑名单仓库
func NewRevokedTokenRepository(db *gorm.DB) *GormRevokedTokenRepository {
	return &GormRevokedTokenRepository{db: db}
}

// Revoke 写入黑名单，重复吊销忽略
func (r *GormRevokedTokenRepository) Revoke(token *models.RevokedToken) error {
	if token == nil || token.JTI == "" {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoNothing: true,
	}).Create(token).Error
}

// IsRevoked 判断 jti 是否已吊销
func (r *GormRevokedTokenRepository) IsRevoked(jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired 清理已自然过期的黑名单记录
func (r *GormRevokedTokenRepository) PurgeExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
