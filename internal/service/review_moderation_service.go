package service

import (
	"context"
	"time"

	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
)

// ReviewModerationService 后台评价审核与用户查询
type ReviewModerationService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
}

// NewReviewModerationService 创建评价审核服务
func NewReviewModerationService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository) *ReviewModerationService {
	return &ReviewModerationService{reviewRepo: reviewRepo, userRepo: userRepo}
}

// ListReviews 后台评价列表
func (s *ReviewModerationService) ListReviews(filter repository.ReviewListFilter) ([]models.ProductReview, int64, error) {
	if filter.Rating != 0 && (filter.Rating < 1 || filter.Rating > 5) {
		return nil, 0, NewValidationError("rating", "error.review_rating_range")
	}
	return s.reviewRepo.List(filter)
}

// SetApproval 审核通过或撤回
func (s *ReviewModerationService) SetApproval(ctx context.Context, id uint, approved bool) (*models.ProductReview, error) {
	// 状态未变化时 RowsAffected 可能为 0，是否存在以重新读取为准
	if _, err := s.reviewRepo.UpdateApproval(id, approved); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	invalidateDashboard(ctx)
	return review, nil
}

// AdminUserQuery 后台用户列表查询
type AdminUserQuery struct {
	Page        int
	PageSize    int
	Keyword     string
	IsActive    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ListUsers 后台用户列表
func (s *ReviewModerationService) ListUsers(query AdminUserQuery) ([]models.User, int64, error) {
	if query.CreatedFrom != nil && query.CreatedTo != nil && query.CreatedFrom.After(*query.CreatedTo) {
		return nil, 0, NewValidationError("created_from", "error.field_invalid")
	}
	return s.userRepo.List(repository.UserListFilter{
		Page:        query.Page,
		PageSize:    query.PageSize,
		Keyword:     query.Keyword,
		IsActive:    query.IsActive,
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
	})
}
