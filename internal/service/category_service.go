package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
	IsActive    *bool
	SortOrder   int
}

// BrandInput 创建/更新品牌输入
type BrandInput struct {
	Name        string
	Slug        string
	Description string
	Logo        string
	Website     string
	IsActive    *bool
}

// CategoryService 分类与品牌的后台维护
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository, brandRepo repository.BrandRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, brandRepo: brandRepo}
}

// ListCategories 全部分类（含未启用）
func (s *CategoryService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List(false)
}

// CreateCategory 创建分类
func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name, slug, err := normalizeNameAndSlug(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	count, err := s.categoryRepo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	now := time.Now()
	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
		IsActive:    boolOrDefault(input.IsActive, true),
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	invalidateDashboard(ctx)
	return category, nil
}

// UpdateCategory 更新分类
func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	name, slug, err := normalizeNameAndSlug(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	count, err := s.categoryRepo.CountBySlug(slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category.Name = name
	category.Slug = slug
	category.Description = strings.TrimSpace(input.Description)
	category.Image = strings.TrimSpace(input.Image)
	category.IsActive = boolOrDefault(input.IsActive, category.IsActive)
	category.SortOrder = input.SortOrder
	category.UpdatedAt = time.Now()
	if err := s.categoryRepo.Update(category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	invalidateDashboard(ctx)
	return category, nil
}

// DeleteCategory 删除分类，仍有商品时拒绝
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}

// ListBrands 全部品牌（含未启用）
func (s *CategoryService) ListBrands() ([]models.Brand, error) {
	return s.brandRepo.List(false)
}

// CreateBrand 创建品牌
func (s *CategoryService) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	name, slug, err := normalizeNameAndSlug(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	count, err := s.brandRepo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	now := time.Now()
	brand := &models.Brand{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Logo:        strings.TrimSpace(input.Logo),
		Website:     strings.TrimSpace(input.Website),
		IsActive:    boolOrDefault(input.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.brandRepo.Create(brand); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	invalidateDashboard(ctx)
	return brand, nil
}

// UpdateBrand 更新品牌
func (s *CategoryService) UpdateBrand(ctx context.Context, id uint, input BrandInput) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	name, slug, err := normalizeNameAndSlug(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	count, err := s.brandRepo.CountBySlug(slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	brand.Name = name
	brand.Slug = slug
	brand.Description = strings.TrimSpace(input.Description)
	brand.Logo = strings.TrimSpace(input.Logo)
	brand.Website = strings.TrimSpace(input.Website)
	brand.IsActive = boolOrDefault(input.IsActive, brand.IsActive)
	brand.UpdatedAt = time.Now()
	if err := s.brandRepo.Update(brand); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	invalidateDashboard(ctx)
	return brand, nil
}

// DeleteBrand 删除品牌，仍有商品时拒绝
func (s *CategoryService) DeleteBrand(ctx context.Context, id uint) error {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}
	count, err := s.brandRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBrandInUse
	}
	if err := s.brandRepo.Delete(id); err != nil {
		return err
	}
	invalidateDashboard(ctx)
	return nil
}

// Slugify 由名称生成 slug：小写，非字母数字折叠为连字符
func Slugify(raw string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "-")
	return strings.Trim(slug, "-")
}

func normalizeNameAndSlug(rawName, rawSlug string) (string, string, error) {
	name := strings.TrimSpace(rawName)
	slug := Slugify(rawSlug)
	if slug == "" {
		slug = Slugify(name)
	}
	verr := &ValidationError{}
	if name == "" {
		verr.Add("name", "error.field_required")
	}
	if slug == "" {
		verr.Add("slug", "error.field_required")
	}
	if err := verr.OrNil(); err != nil {
		return "", "", err
	}
	return name, slug, nil
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func invalidateDashboard(ctx context.Context) {
	if err := cache.InvalidateDashboardOverview(ctx); err != nil {
		logger.Debugw("dashboard_cache_invalidate_failed", "error", err)
	}
}
