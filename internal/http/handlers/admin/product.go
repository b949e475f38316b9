package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name             string `json:"name" binding:"required,max=200"`
	Slug             string `json:"slug" binding:"max=200"`
	Description      string `json:"description" binding:"required"`
	ShortDescription string `json:"short_description" binding:"max=300"`
	CategoryID       uint   `json:"category_id" binding:"required"`
	BrandID          uint   `json:"brand_id" binding:"required"`
	Price            string `json:"price" binding:"required"`
	SalePrice        string `json:"sale_price"`
	Gender           string `json:"gender" binding:"omitempty,oneof=M F U K"`
	AvailableSizes   string `json:"available_sizes" binding:"csv_option"`
	AvailableColors  string `json:"available_colors" binding:"csv_option"`
	StockQuantity    int    `json:"stock_quantity" binding:"gte=0"`
	IsAvailable      *bool  `json:"is_available"`
	IsTryOnEnabled   *bool  `json:"is_try_on_enabled"`
	TryOnCategory    string `json:"try_on_category"`
	MetaTitle        string `json:"meta_title" binding:"max=200"`
	MetaDescription  string `json:"meta_description" binding:"max=300"`
	IsFeatured       *bool  `json:"is_featured"`
	IsActive         *bool  `json:"is_active"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:             r.Name,
		Slug:             r.Slug,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		CategoryID:       r.CategoryID,
		BrandID:          r.BrandID,
		Price:            r.Price,
		SalePrice:        r.SalePrice,
		Gender:           r.Gender,
		AvailableSizes:   r.AvailableSizes,
		AvailableColors:  r.AvailableColors,
		StockQuantity:    r.StockQuantity,
		IsAvailable:      r.IsAvailable,
		IsTryOnEnabled:   r.IsTryOnEnabled,
		TryOnCategory:    r.TryOnCategory,
		MetaTitle:        r.MetaTitle,
		MetaDescription:  r.MetaDescription,
		IsFeatured:       r.IsFeatured,
		IsActive:         r.IsActive,
	}
}

// BulkActionRequest 批量操作请求
type BulkActionRequest struct {
	Action     string `json:"action" binding:"required"`
	ProductIDs []uint `json:"product_ids"`
}

func parseAdminProductQuery(c *gin.Context) (service.AdminProductQuery, error) {
	page, pageSize := parsePagination(c)
	categoryID, err := parseQueryUint(c, "category")
	if err != nil {
		return service.AdminProductQuery{}, err
	}
	brandID, err := parseQueryUint(c, "brand")
	if err != nil {
		return service.AdminProductQuery{}, err
	}
	return service.AdminProductQuery{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: categoryID,
		BrandID:    brandID,
		Status:     strings.TrimSpace(c.Query("status")),
		Search:     strings.TrimSpace(c.Query("search")),
	}, nil
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	query, err := parseAdminProductQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	products, total, err := h.AdminProductService.List(query)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(query.Page, query.PageSize, total))
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.AdminProductService.Get(id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.AdminProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	response.Created(c, "success", product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.AdminProductService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（软删除）
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.AdminProductService.Delete(c.Request.Context(), id); err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}

// BulkProductAction 批量上下架、推荐、试穿开关与删除
func (h *Handler) BulkProductAction(c *gin.Context) {
	var req BulkActionRequest
	if !bindJSON(c, &req) {
		return
	}
	affected, err := h.AdminProductService.BulkAction(c.Request.Context(), strings.TrimSpace(req.Action), req.ProductIDs)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	requestLog(c).Infow("admin_product_bulk_action", "action", req.Action, "count", len(req.ProductIDs), "affected", affected)
	successWithKey(c, "admin.bulk_action_done", gin.H{"action": req.Action, "affected": affected})
}

// UploadProductImage 上传商品图片
func (h *Handler) UploadProductImage(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.field_required", nil)
		return
	}
	sortOrder, _ := strconv.Atoi(c.DefaultPostForm("sort_order", "0"))
	isPrimary, _ := strconv.ParseBool(c.DefaultPostForm("is_primary", "false"))
	image, err := h.AdminProductService.UploadImage(c.Request.Context(), id, fileHeader, service.ProductImageInput{
		AltText:   strings.TrimSpace(c.PostForm("alt_text")),
		IsPrimary: isPrimary,
		SortOrder: sortOrder,
	})
	if err != nil {
		respondWithMappedError(c, err, productUploadErrorRules, "error.upload_failed")
		return
	}
	response.Created(c, "success", image)
}

// SetPrimaryProductImage 设为主图
func (h *Handler) SetPrimaryProductImage(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	imageID, ok := parsePathUint(c, "image_id", "error.image_not_found")
	if !ok {
		return
	}
	image, err := h.AdminProductService.SetPrimaryImage(c.Request.Context(), id, imageID)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, "error.internal")
		return
	}
	response.Success(c, image)
}

// ExportProducts 按当前筛选条件导出 xlsx
func (h *Handler) ExportProducts(c *gin.Context) {
	query, err := parseAdminProductQuery(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var buf bytes.Buffer
	if err := h.ExportService.ExportProducts(&buf, query); err != nil {
		respondError(c, response.CodeInternal, "error.export_failed", err)
		return
	}
	writeXLSX(c, "products", buf.Bytes())
}

// writeXLSX 以附件形式返回 xlsx，文件名带导出时间
func writeXLSX(c *gin.Context, prefix string, data []byte) {
	filename := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, service.XLSXContentType, data)
}

// ImportProducts 从 xlsx 批量导入商品
func (h *Handler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.field_required", nil)
		return
	}
	result, err := h.AdminProductService.ImportProducts(c.Request.Context(), fileHeader)
	if err != nil {
		respondWithMappedError(c, err, productUploadErrorRules, "error.internal")
		return
	}
	requestLog(c).Infow("admin_product_import_done", "created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	response.Success(c, result)
}
