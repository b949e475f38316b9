package service

import (
	"context"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
)

const dateOfBirthLayout = "2006-01-02"

// UpdateProfileInput 资料更新输入，nil 表示不修改
type UpdateProfileInput struct {
	PhoneNumber   *string
	DateOfBirth   *string
	Avatar        *string
	Height        *int
	Weight        *int
	Gender        *string
	PreferredSize *string
}

// UpdateUserDetailsInput 账号信息更新输入
type UpdateUserDetailsInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserDashboard 用户中心统计
type UserDashboard struct {
	User           *models.User        `json:"user"`
	Profile        *models.UserProfile `json:"profile"`
	OrdersCount    int64               `json:"orders_count"`
	ReviewsCount   int64               `json:"reviews_count"`
	AddressesCount int64               `json:"addresses_count"`
}

// UserProfileService 用户资料服务
type UserProfileService struct {
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	reviewRepo  repository.ReviewRepository
	addressRepo repository.AddressRepository
}

// NewUserProfileService 创建用户资料服务
func NewUserProfileService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	reviewRepo repository.ReviewRepository,
	addressRepo repository.AddressRepository,
) *UserProfileService {
	return &UserProfileService{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		reviewRepo:  reviewRepo,
		addressRepo: addressRepo,
	}
}

// GetProfile 获取资料，历史账号缺失资料时补建
func (s *UserProfileService) GetProfile(userID uint) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	profile, err := s.userRepo.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	now := time.Now()
	profile = &models.UserProfile{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := s.userRepo.CreateProfile(profile); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		return s.userRepo.GetProfile(userID)
	}
	return profile, nil
}

// UpdateProfile 更新资料
func (s *UserProfileService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.PhoneNumber != nil {
		phone := strings.TrimSpace(*input.PhoneNumber)
		if phone != "" && !ValidPhoneNumber(phone) {
			verr.Add("phone_number", "error.phone_invalid")
		}
		profile.PhoneNumber = phone
	}
	if input.DateOfBirth != nil {
		raw := strings.TrimSpace(*input.DateOfBirth)
		if raw == "" {
			profile.DateOfBirth = nil
		} else if dob, err := time.Parse(dateOfBirthLayout, raw); err != nil || dob.After(time.Now()) {
			verr.Add("date_of_birth", "error.field_invalid")
		} else {
			profile.DateOfBirth = &dob
		}
	}
	if input.Avatar != nil {
		profile.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.Height != nil {
		if *input.Height <= 0 {
			verr.Add("height", "error.positive_number")
		}
		profile.Height = input.Height
	}
	if input.Weight != nil {
		if *input.Weight <= 0 {
			verr.Add("weight", "error.positive_number")
		}
		profile.Weight = input.Weight
	}
	if input.Gender != nil {
		gender := strings.ToUpper(strings.TrimSpace(*input.Gender))
		if gender != "" && !containsString(constants.ProfileGenders(), gender) {
			verr.Add("gender", "error.gender_invalid")
		}
		profile.Gender = gender
	}
	if input.PreferredSize != nil {
		size := strings.ToUpper(strings.TrimSpace(*input.PreferredSize))
		if size != "" && !containsString(constants.ClothingSizes(), size) {
			verr.Add("preferred_size", "error.preferred_size_invalid")
		}
		profile.PreferredSize = size
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	profile.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetUserDetails 获取账号信息
func (s *UserProfileService) GetUserDetails(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateUserDetails 更新姓名与邮箱，邮箱需全局唯一
func (s *UserProfileService) UpdateUserDetails(ctx context.Context, userID uint, input UpdateUserDetailsInput) (*models.User, error) {
	user, err := s.GetUserDetails(userID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		normalized, err := normalizeEmail(*input.Email)
		if err != nil {
			verr.Add("email", "error.email_invalid")
		} else if normalized != user.Email {
			count, err := s.userRepo.CountByEmail(normalized, user.ID)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrEmailExists
			}
			user.Email = normalized
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return user, nil
}

// UserDashboard 用户中心概览
func (s *UserProfileService) UserDashboard(userID uint) (*UserDashboard, error) {
	user, err := s.GetUserDetails(userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addressRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	return &UserDashboard{
		User:           user,
		Profile:        profile,
		OrdersCount:    orders,
		ReviewsCount:   reviews,
		AddressesCount: addresses,
	}, nil
}
