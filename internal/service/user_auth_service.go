package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	revokedRepo repository.RevokedTokenRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, revokedRepo repository.RevokedTokenRepository) *UserAuthService {
	return &UserAuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	TokenType    string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// RegisterInput 注册输入
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// Register 用户注册，用户与资料在同一事务内创建
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*models.User, *TokenPair, error) {
	username := strings.TrimSpace(input.Username)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	verr := &ValidationError{}
	if username == "" {
		verr.Add("username", "error.field_required")
	}
	if firstName == "" {
		verr.Add("first_name", "error.field_required")
	}
	if lastName == "" {
		verr.Add("last_name", "error.field_required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		verr.Add("email", "error.field_required")
	} else if normalized, err := normalizeEmail(email); err != nil {
		verr.Add("email", "error.email_invalid")
	} else {
		email = normalized
	}
	if input.Password == "" {
		verr.Add("password", "error.field_required")
	} else if input.Password != input.Password2 {
		verr.Add("password", "error.password_mismatch")
	}
	if err := verr.OrNil(); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password, input.Username, input.Email); err != nil {
		return nil, nil, err
	}

	if count, err := s.userRepo.CountByUsername(username); err != nil {
		return nil, nil, err
	} else if count > 0 {
		return nil, nil, ErrUsernameExists
	}
	if count, err := s.userRepo.CountByEmail(email, 0); err != nil {
		return nil, nil, err
	} else if count > 0 {
		return nil, nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hashed),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)
		if err := repo.Create(user); err != nil {
			return err
		}
		profile := &models.UserProfile{UserID: user.ID, CreatedAt: now, UpdatedAt: now}
		if err := repo.CreateProfile(profile); err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, nil, s.registerConflict(email)
		}
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return user, pair, nil
}

// registerConflict 并发注册撞唯一索引时区分邮箱与用户名冲突
func (s *UserAuthService) registerConflict(email string) error {
	count, err := s.userRepo.CountByEmail(email, 0)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailExists
	}
	return ErrUsernameExists
}

// Login 用户名密码登录
// 用户不存在与密码错误返回同一错误，避免枚举账号。
func (s *UserAuthService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrUserDisabled
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return user, pair, nil
}

// Logout 吊销刷新令牌
func (s *UserAuthService) Logout(ctx context.Context, userID uint, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return NewValidationError("refresh_token", "error.field_required")
	}
	claims, err := s.ParseUserJWT(refreshToken)
	if err != nil || claims.TokenType != constants.TokenTypeRefresh || claims.UserID != userID {
		return ErrInvalidToken
	}
	return s.revoke(ctx, claims)
}

// Refresh 使用刷新令牌换取新的访问令牌
func (s *UserAuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.ParseUserJWT(strings.TrimSpace(refreshToken))
	if err != nil || claims.TokenType != constants.TokenTypeRefresh {
		return "", time.Time{}, ErrInvalidToken
	}
	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		return "", time.Time{}, err
	}
	if revoked {
		return "", time.Time{}, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", time.Time{}, err
	}
	if user == nil {
		return "", time.Time{}, ErrInvalidToken
	}
	if !user.IsActive {
		return "", time.Time{}, ErrUserDisabled
	}
	if claims.TokenVersion != user.TokenVersion || !issuedAfter(claims.IssuedAt, user.TokenInvalidBefore) {
		return "", time.Time{}, ErrInvalidToken
	}

	access, expiresAt, _, err := s.generateToken(user, constants.TokenTypeAccess)
	if err != nil {
		return "", time.Time{}, err
	}
	return access, expiresAt, nil
}

// Verify 校验任意类型的令牌
func (s *UserAuthService) Verify(ctx context.Context, token string) error {
	claims, err := s.ParseUserJWT(strings.TrimSpace(token))
	if err != nil {
		return ErrInvalidToken
	}
	if claims.TokenType == constants.TokenTypeRefresh {
		revoked, err := s.isRevoked(ctx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return ErrInvalidToken
		}
	}
	return nil
}

// ChangePassword 修改密码，成功后旧令牌全部失效
func (s *UserAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, newPassword2 string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if newPassword != newPassword2 {
		return NewValidationError("new_password2", "error.password_mismatch")
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword, user.Username, user.Email); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	user.PasswordHash = string(hashed)
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	return ParseUserToken(s.cfg.JWT.SecretKey, tokenString)
}

// ParseUserToken 使用给定密钥解析用户令牌，中间件与服务共用
func ParseUserToken(secretKey, tokenString string) (*UserJWTClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *UserAuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	access, accessExp, _, err := s.generateToken(user, constants.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, _, err := s.generateToken(user, constants.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *UserAuthService) generateToken(user *models.User, tokenType string) (string, time.Time, string, error) {
	hours := resolveUserJWTExpireHours(s.cfg.JWT)
	if tokenType == constants.TokenTypeRefresh {
		hours = resolveRefreshExpireHours(s.cfg.JWT)
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	jti := uuid.NewString()
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		TokenType:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, "", err
	}
	return tokenString, expiresAt, jti, nil
}

// revoke Redis 优先，未启用或写入失败时落库
func (s *UserAuthService) revoke(ctx context.Context, claims *UserJWTClaims) error {
	expiresAt := time.Now().Add(time.Duration(resolveRefreshExpireHours(s.cfg.JWT)) * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if cache.Enabled() {
		err := cache.RevokeToken(ctx, claims.ID, expiresAt)
		if err == nil {
			return nil
		}
		logger.Warnw("refresh_token_revoke_redis_failed", "user_id", claims.UserID, "error", err)
	}
	if s.revokedRepo == nil {
		return errors.New("revoked token store unavailable")
	}
	return s.revokedRepo.Revoke(&models.RevokedToken{
		JTI:       claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
}

func (s *UserAuthService) isRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return true, nil
	}
	revoked, enabled, err := cache.IsTokenRevoked(ctx, jti)
	if err != nil {
		logger.Warnw("refresh_token_denylist_read_failed", "error", err)
	}
	if enabled && err == nil && revoked {
		return true, nil
	}
	if s.revokedRepo == nil {
		return false, nil
	}
	return s.revokedRepo.IsRevoked(jti)
}

func issuedAfter(issuedAt *jwt.NumericDate, invalidBefore *time.Time) bool {
	if invalidBefore == nil {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBefore.Unix()
}

// normalizeEmail 只接受裸地址，显示名或尖括号形式一律拒绝
func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Name != "" || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRefreshExpireHours(cfg config.JWTConfig) int {
	if cfg.RefreshExpireHours <= 0 {
		return 168
	}
	return cfg.RefreshExpireHours
}
