package admin

import (
	"strings"
	"time"

	"github.com/tryon-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, token, expiresAt, err := h.AdminAuthService.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		respondWithMappedError(c, err, adminAccountErrorRules, "error.internal")
		return
	}
	requestLog(c).Infow("admin_login_success", "admin_id", admin.ID, "client_ip", c.ClientIP())
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}
