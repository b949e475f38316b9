package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tryon-shop/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 顾客登录态快照，鉴权中间件命中时跳过查库
// token_invalid_before 为 Unix 秒，0 表示未设置
type UserAuthState struct {
	UserID             uint   `json:"user_id"`
	IsActive           bool   `json:"is_active"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	CachedAt           int64  `json:"cached_at"`
}

// AdminAuthState 后台账号登录态快照
type AdminAuthState struct {
	AdminID            uint   `json:"admin_id"`
	Username           string `json:"username"`
	IsSuper            bool   `json:"is_super"`
	IsActive           bool   `json:"is_active"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	CachedAt           int64  `json:"cached_at"`
}

func (s *UserAuthState) stateKey() (string, bool) {
	return authStateKey("user", s.UserID), s.UserID != 0
}

func (s *AdminAuthState) stateKey() (string, bool) {
	return authStateKey("admin", s.AdminID), s.AdminID != 0
}

type authState interface {
	stateKey() (string, bool)
}

func authStateKey(kind string, id uint) string {
	return fmt.Sprintf("auth:%s:%d", kind, id)
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

// BuildUserAuthState 由用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:             user.ID,
		IsActive:           user.IsActive,
		TokenVersion:       user.TokenVersion,
		TokenInvalidBefore: unixOrZero(user.TokenInvalidBefore),
		CachedAt:           time.Now().Unix(),
	}
}

// BuildAdminAuthState 由管理员记录生成快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:            admin.ID,
		Username:           admin.Username,
		IsSuper:            admin.IsSuper,
		IsActive:           admin.IsActive,
		TokenVersion:       admin.TokenVersion,
		TokenInvalidBefore: unixOrZero(admin.TokenInvalidBefore),
		CachedAt:           time.Now().Unix(),
	}
}

func loadAuthState[T any](ctx context.Context, key string, id uint) (*T, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var state T
	hit, err := GetJSON(ctx, key, &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

func storeAuthState(ctx context.Context, state authState) error {
	key, ok := state.stateKey()
	if !ok {
		return nil
	}
	return SetJSON(ctx, key, state, authStateCacheTTL)
}

// GetUserAuthState 读取顾客快照，第二个返回值表示是否命中
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	return loadAuthState[UserAuthState](ctx, authStateKey("user", userID), userID)
}

// SetUserAuthState 刷新顾客快照，登录、改密、停用后调用
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuthState(ctx, state)
}

func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	return loadAuthState[AdminAuthState](ctx, authStateKey("admin", adminID), adminID)
}

func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuthState(ctx, state)
}
