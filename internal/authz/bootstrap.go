package authz

import (
	"fmt"

	"github.com/tryon-shop/internal/logger"
)

// 预置角色
const (
	RoleReadonlyAuditor = "readonly_auditor"
	RoleCatalogManager  = "catalog_manager"
	RoleOrderManager    = "order_manager"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// Policy 单条策略
type Policy struct {
	Object string
	Action string
}

// BuiltinRoleSeeds 预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role:     RoleReadonlyAuditor,
			Policies: []Policy{{Object: "/admin/*", Action: "GET"}},
		},
		{
			Role:     RoleCatalogManager,
			Inherits: []string{RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/products", Action: "*"},
				{Object: "/admin/products/*", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/*", Action: "*"},
				{Object: "/admin/brands", Action: "*"},
				{Object: "/admin/brands/*", Action: "*"},
				{Object: "/admin/reviews/*", Action: "PATCH"},
				{Object: "/admin/upload", Action: "POST"},
			},
		},
		{
			Role: RoleOrderManager,
			Policies: []Policy{
				{Object: "/admin/dashboard/*", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/*", Action: "GET"},
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
				{Object: "/admin/users", Action: "GET"},
				{Object: "/admin/ws/orders", Action: "GET"},
			},
		},
	}
}

// IsBuiltinRole 是否为预置角色（可带 role: 前缀）
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if rolePrefix+seed.Role == normalized {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 写入预置角色策略，已存在的规则跳过
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	added := 0
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			ok, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role %s: %w", role, err)
			}
			if ok {
				added++
			}
		}
		for _, policy := range seed.Policies {
			ok, err := s.grantRolePolicy(role, policy.Object, policy.Action)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
	}
	if added > 0 {
		logger.Infow("authz_builtin_roles_seeded", "rules", added)
	}
	return nil
}
