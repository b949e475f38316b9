package service

import (
	"context"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService 管理员认证服务
type AdminAuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

// NewAdminAuthService 创建管理员认证服务
func NewAdminAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AdminAuthService {
	return &AdminAuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AdminJWTClaims 管理员 JWT 声明
type AdminJWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成管理员 Token
func (s *AdminAuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	hours := s.cfg.AdminJWT.ExpireHours
	if hours <= 0 {
		hours = 12
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := AdminJWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.AdminJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAdminToken 解析管理员 Token
func ParseAdminToken(secretKey, tokenString string) (*AdminJWTClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &AdminJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.AdminID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Login 管理员登录
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, "", time.Time{}, ErrAdminDisabled
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.adminRepo.TouchLastLogin(admin.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	admin.LastLoginAt = &now
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))

	return admin, token, expiresAt, nil
}

// EnsureBootstrapAdmin 管理员表为空时按配置创建超级管理员
func (s *AdminAuthService) EnsureBootstrapAdmin() (*models.Admin, error) {
	username := strings.TrimSpace(s.cfg.Bootstrap.AdminUsername)
	password := s.cfg.Bootstrap.AdminPassword
	if username == "" || password == "" {
		return nil, nil
	}
	count, err := s.adminRepo.Count()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password, username); err != nil {
		logger.Warnw("bootstrap_admin_password_weak", "username", username)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	logger.Infow("bootstrap_admin_created", "admin_id", admin.ID, "username", username)
	return admin, nil
}
