package public

import (
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/queue"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 更新资料请求，未提交的字段保持不变
type UpdateProfileRequest struct {
	PhoneNumber   *string `json:"phone_number"`
	DateOfBirth   *string `json:"date_of_birth"`
	Avatar        *string `json:"avatar" binding:"omitempty,max=500"`
	Height        *int    `json:"height"`
	Weight        *int    `json:"weight"`
	Gender        *string `json:"gender"`
	PreferredSize *string `json:"preferred_size"`
}

// UpdateUserDetailsRequest 更新账号信息请求
type UpdateUserDetailsRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// GetProfile 获取个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.UserProfileService.GetProfile(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.UserProfileService.UpdateProfile(uid, service.UpdateProfileInput{
		PhoneNumber:   req.PhoneNumber,
		DateOfBirth:   req.DateOfBirth,
		Avatar:        req.Avatar,
		Height:        req.Height,
		Weight:        req.Weight,
		Gender:        req.Gender,
		PreferredSize: req.PreferredSize,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, profile)
}

// UploadAvatar 上传头像并写回资料，缩放交给后台任务
func (h *Handler) UploadAvatar(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.field_required", nil)
		return
	}
	uploaded, err := h.UploadService.SaveImage(c.Request.Context(), fileHeader, service.UploadSceneAvatar)
	if err != nil {
		respondWithMappedError(c, err, uploadErrorRules, "error.upload_failed")
		return
	}
	profile, err := h.UserProfileService.UpdateProfile(uid, service.UpdateProfileInput{Avatar: &uploaded.URL})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	if h.QueueClient.Enabled() && h.Config.Upload.AvatarMax > 0 {
		if err := h.QueueClient.EnqueueImageResize(queue.ImageResizePayload{Key: uploaded.Key, MaxSize: h.Config.Upload.AvatarMax}); err != nil {
			requestLog(c).Warnw("avatar_resize_enqueue_failed", "user_id", uid, "key", uploaded.Key, "error", err)
		}
	}
	response.Success(c, profile)
}

// GetUserDetails 获取账号信息
func (h *Handler) GetUserDetails(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserProfileService.GetUserDetails(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, user)
}

// UpdateUserDetails 更新姓名与邮箱
func (h *Handler) UpdateUserDetails(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateUserDetailsRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.UserProfileService.UpdateUserDetails(c.Request.Context(), uid, service.UpdateUserDetailsInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, user)
}

// GetUserDashboard 用户中心概览
func (h *Handler) GetUserDashboard(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	dashboard, err := h.UserProfileService.UserDashboard(uid)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, "error.internal")
		return
	}
	response.Success(c, dashboard)
}
