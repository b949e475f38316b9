package cache

import (
	"context"
	"fmt"
	"time"
)

func revokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// RevokeToken 将令牌 jti 写入黑名单，保留到令牌原过期时间
func RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	return SetFlag(ctx, revokedTokenKey(jti), time.Until(expiresAt))
}

// IsTokenRevoked 判断令牌是否已吊销；Redis 未启用时返回 enabled=false 由调用方兜底
func IsTokenRevoked(ctx context.Context, jti string) (revoked bool, enabled bool, err error) {
	if !Enabled() || jti == "" {
		return false, false, nil
	}
	revoked, err = Exists(ctx, revokedTokenKey(jti))
	return revoked, true, err
}
