package public

import (
	"strings"
	"time"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求，字段校验交由服务层统一返回
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// VerifyRequest 校验令牌请求
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password" binding:"required"`
	NewPassword  string `json:"new_password" binding:"required"`
	NewPassword2 string `json:"new_password2" binding:"required"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, tokens, err := h.UserAuthService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	createdWithKey(c, "auth.registered", gin.H{"user": user, "tokens": tokens})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, tokens, err := h.UserAuthService.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	requestLog(c).Infow("user_login_success", "user_id", user.ID, "client_ip", c.ClientIP())
	successWithKey(c, "auth.logged_in", gin.H{"user": user, "tokens": tokens})
}

// UserLogout 登出并吊销 refresh token
func (h *Handler) UserLogout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req LogoutRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserAuthService.Logout(c.Request.Context(), uid, req.RefreshToken); err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	successWithKey(c, "auth.logged_out", nil)
}

// RefreshToken 使用 refresh token 换取新的 access token
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	access, expiresAt, err := h.UserAuthService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"access":            access,
		"access_expires_at": expiresAt.Format(time.RFC3339),
	})
}

// VerifyToken 校验任意类型的令牌
func (h *Handler) VerifyToken(c *gin.Context) {
	var req VerifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserAuthService.Verify(c.Request.Context(), req.Token); err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	successWithKey(c, "auth.token_valid", nil)
}

// ChangePassword 修改密码，成功后旧令牌全部失效
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserAuthService.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword, req.NewPassword2); err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	successWithKey(c, "auth.password_changed", nil)
}
