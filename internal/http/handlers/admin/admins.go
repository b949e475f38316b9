package admin

import (
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAdminRequest 创建管理员请求
type CreateAdminRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=64"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

// SetAdminRolesRequest 设置角色请求
type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// GetAdminAccounts 管理员列表
func (h *Handler) GetAdminAccounts(c *gin.Context) {
	admins, err := h.AdminAccountService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, admins)
}

// CreateAdminAccount 创建管理员并授予角色
func (h *Handler) CreateAdminAccount(c *gin.Context) {
	var req CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.AdminAccountService.Create(service.CreateAdminInput{
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		respondWithMappedError(c, err, adminAccountErrorRules, "error.internal")
		return
	}
	operatorID, _ := getAdminID(c)
	requestLog(c).Infow("admin_account_created", "operator_id", operatorID, "admin_id", admin.ID, "roles", admin.Roles)
	response.Created(c, "success", admin)
}

// SetAdminRoles 覆盖管理员角色
func (h *Handler) SetAdminRoles(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.admin_not_found")
	if !ok {
		return
	}
	var req SetAdminRolesRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.AdminAccountService.SetRoles(id, req.Roles)
	if err != nil {
		respondWithMappedError(c, err, adminAccountErrorRules, "error.internal")
		return
	}
	response.Success(c, admin)
}

// GetAuthzRoles 可分配的角色
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}
