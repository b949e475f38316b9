package admin

import (
	"strconv"
	"strings"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/repository"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewApprovalRequest 审核评价请求
type ReviewApprovalRequest struct {
	IsApproved *bool `json:"is_approved" binding:"required"`
}

// GetAdminReviews 评价列表，可按商品、审核状态与评分过滤
func (h *Handler) GetAdminReviews(c *gin.Context) {
	page, pageSize := parsePagination(c)
	productID, err := parseQueryUint(c, "product_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	approved, err := parseQueryBool(c, "is_approved")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	rating := 0
	if raw := strings.TrimSpace(c.Query("rating")); raw != "" {
		rating, err = strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
	}
	reviews, total, err := h.ReviewModerationService.ListReviews(repository.ReviewListFilter{
		Page:       page,
		PageSize:   pageSize,
		ProductID:  productID,
		IsApproved: approved,
		Rating:     rating,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}

// UpdateReviewApproval 审核通过或撤回
func (h *Handler) UpdateReviewApproval(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.review_not_found")
	if !ok {
		return
	}
	var req ReviewApprovalRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.ReviewModerationService.SetApproval(c.Request.Context(), id, *req.IsApproved)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, "error.internal")
		return
	}
	response.Success(c, review)
}

// GetAdminUsers 用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	isActive, err := parseQueryBool(c, "is_active")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	users, total, err := h.ReviewModerationService.ListUsers(service.AdminUserQuery{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		IsActive:    isActive,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}
