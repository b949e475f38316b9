package admin

import (
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=100"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// BrandRequest 品牌请求
type BrandRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=100"`
	Description string `json:"description"`
	Logo        string `json:"logo" binding:"max=500"`
	Website     string `json:"website" binding:"omitempty,url"`
	IsActive    *bool  `json:"is_active"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Image:       r.Image,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

func (r BrandRequest) toInput() service.BrandInput {
	return service.BrandInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Logo:        r.Logo,
		Website:     r.Website,
		IsActive:    r.IsActive,
	}
}

// GetAdminCategories 全部分类（含停用）
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.CreateCategory(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, "error.internal")
		return
	}
	response.Created(c, "success", category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.CategoryService.UpdateCategory(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, "error.internal")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类，仍有商品时拒绝
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	if err := h.CategoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, categoryErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}

// GetAdminBrands 全部品牌（含停用）
func (h *Handler) GetAdminBrands(c *gin.Context) {
	brands, err := h.CategoryService.ListBrands()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, brands)
}

// CreateBrand 创建品牌
func (h *Handler) CreateBrand(c *gin.Context) {
	var req BrandRequest
	if !bindJSON(c, &req) {
		return
	}
	brand, err := h.CategoryService.CreateBrand(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, "error.internal")
		return
	}
	response.Created(c, "success", brand)
}

// UpdateBrand 更新品牌
func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.brand_not_found")
	if !ok {
		return
	}
	var req BrandRequest
	if !bindJSON(c, &req) {
		return
	}
	brand, err := h.CategoryService.UpdateBrand(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, categoryErrorRules, "error.internal")
		return
	}
	response.Success(c, brand)
}

// DeleteBrand 删除品牌
func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.brand_not_found")
	if !ok {
		return
	}
	if err := h.CategoryService.DeleteBrand(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, categoryErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}

// UploadFile 通用图片上传（分类图、品牌 logo 等）
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.field_required", nil)
		return
	}
	scene := c.DefaultPostForm("scene", service.UploadSceneCommon)
	result, err := h.UploadService.SaveImage(c.Request.Context(), fileHeader, scene)
	if err != nil {
		respondWithMappedError(c, err, uploadErrorRules, "error.upload_failed")
		return
	}
	response.Success(c, result)
}
