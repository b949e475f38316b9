package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// CreateReviewRequest 提交评价请求
type CreateReviewRequest struct {
	Rating         int    `json:"rating"`
	Title          string `json:"title" binding:"required,max=200"`
	Content        string `json:"content" binding:"required"`
	SizePurchased  string `json:"size_purchased" binding:"max=10"`
	ColorPurchased string `json:"color_purchased" binding:"max=50"`
}

// GetConfig 获取前台展示所需的店铺配置
func (h *Handler) GetConfig(c *gin.Context) {
	var cached gin.H
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	orderCfg := h.Config.Order
	data := gin.H{
		"name":                    h.Config.App.Name,
		"currency":                h.Config.App.Currency,
		"tax_rate":                orderCfg.TaxRateDecimal().String(),
		"flat_shipping_fee":       orderCfg.FlatShippingFeeDecimal().StringFixed(2),
		"free_shipping_threshold": orderCfg.FreeShippingThresholdDecimal().StringFixed(2),
		"max_item_quantity":       orderCfg.MaxQuantity(),
	}
	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	query := service.ProductListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		Gender:   strings.TrimSpace(c.Query("gender")),
		MinPrice: strings.TrimSpace(c.Query("min_price")),
		MaxPrice: strings.TrimSpace(c.Query("max_price")),
		Featured: strings.EqualFold(strings.TrimSpace(c.Query("featured")), "true"),
		Sort:     strings.TrimSpace(c.Query("sort")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		query.Limit = limit
	}

	// limit 优先于分页
	if query.Limit > 0 {
		products, _, err := h.CatalogService.ListProducts(c.Request.Context(), query)
		if err != nil {
			respondWithMappedError(c, err, catalogErrorRules, "error.internal")
			return
		}
		response.Success(c, products)
		return
	}

	query.Page, query.PageSize = parsePagination(c)

	products, total, err := h.CatalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(query.Page, query.PageSize, total))
}

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.CatalogService.GetProductBySlug(strings.TrimSpace(c.Param("slug")))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "error.internal")
		return
	}
	response.Success(c, product)
}

// GetProductReviews 获取商品已审核评价
func (h *Handler) GetProductReviews(c *gin.Context) {
	reviews, err := h.CatalogService.ListReviews(strings.TrimSpace(c.Param("slug")))
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "error.internal")
		return
	}
	response.Success(c, reviews)
}

// CreateProductReview 提交商品评价
func (h *Handler) CreateProductReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.CatalogService.CreateReview(c.Request.Context(), uid, strings.TrimSpace(c.Param("slug")), service.CreateReviewInput{
		Rating:         req.Rating,
		Title:          req.Title,
		Content:        req.Content,
		SizePurchased:  req.SizePurchased,
		ColorPurchased: req.ColorPurchased,
	})
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "error.internal")
		return
	}
	createdWithKey(c, "review.created", review)
}

// GetCategories 获取启用的分类
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, categories)
}

// GetBrands 获取启用的品牌
func (h *Handler) GetBrands(c *gin.Context) {
	brands, err := h.CatalogService.ListBrands()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, brands)
}

// GetCatalogStats 目录统计
func (h *Handler) GetCatalogStats(c *gin.Context) {
	stats, err := h.CatalogService.CatalogStats()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, stats)
}
