package service

import (
	"strings"
	"time"

	"github.com/tryon-shop/internal/authz"
	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
)

// AdminAccountView 管理员及其角色
type AdminAccountView struct {
	*models.Admin
	Roles []string `json:"roles"`
}

// CreateAdminInput 创建管理员输入
type CreateAdminInput struct {
	Username string
	Password string
	Roles    []string
}

// AdminAccountService 管理员账号与角色分配（仅超级管理员可写）
type AdminAccountService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	authz     *authz.Service
}

// NewAdminAccountService 创建管理员账号服务
func NewAdminAccountService(cfg *config.Config, adminRepo repository.AdminRepository, authzService *authz.Service) *AdminAccountService {
	return &AdminAccountService{cfg: cfg, adminRepo: adminRepo, authz: authzService}
}

// List 管理员列表
func (s *AdminAccountService) List() ([]AdminAccountView, error) {
	admins, err := s.adminRepo.List()
	if err != nil {
		return nil, err
	}
	views := make([]AdminAccountView, 0, len(admins))
	for i := range admins {
		roles, err := s.authz.GetAdminRoles(admins[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, AdminAccountView{Admin: &admins[i], Roles: roles})
	}
	return views, nil
}

// Create 创建管理员并分配角色
func (s *AdminAccountService) Create(input CreateAdminInput) (*AdminAccountView, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, NewValidationError("username", "error.field_required")
	}
	if err := validateRoles(input.Roles); err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password, username); err != nil {
		return nil, err
	}
	existing, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	if err := s.authz.SetAdminRoles(admin.ID, input.Roles); err != nil {
		return nil, err
	}
	roles, err := s.authz.GetAdminRoles(admin.ID)
	if err != nil {
		return nil, err
	}
	return &AdminAccountView{Admin: admin, Roles: roles}, nil
}

// SetRoles 覆盖管理员角色
func (s *AdminAccountService) SetRoles(adminID uint, roles []string) (*AdminAccountView, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	if err := validateRoles(roles); err != nil {
		return nil, err
	}
	if err := s.authz.SetAdminRoles(adminID, roles); err != nil {
		return nil, err
	}
	current, err := s.authz.GetAdminRoles(adminID)
	if err != nil {
		return nil, err
	}
	return &AdminAccountView{Admin: admin, Roles: current}, nil
}

func validateRoles(roles []string) error {
	for _, role := range roles {
		if !authz.IsBuiltinRole(role) {
			return ErrInvalidRole
		}
	}
	return nil
}
