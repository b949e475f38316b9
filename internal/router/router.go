package router

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tryon-shop/internal/authz"
	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/config"
	adminhandlers "github.com/tryon-shop/internal/http/handlers/admin"
	publichandlers "github.com/tryon-shop/internal/http/handlers/public"
	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/i18n"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	handlershared.RegisterValidators()
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tryon"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_rate_limited",
	}
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: 3600,
		MaxRequests:   20,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 本地存储时直接提供上传文件
	if strings.TrimSpace(cfg.Storage.Driver) == "" || cfg.Storage.Driver == "local" {
		publicURL := strings.TrimSpace(cfg.Storage.PublicURL)
		if strings.HasPrefix(publicURL, "/") {
			r.Static(publicURL, cfg.Storage.LocalDir)
		}
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/config", publicHandler.GetConfig)
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:slug", publicHandler.GetProductBySlug)
		apiV1.GET("/products/:slug/reviews", publicHandler.GetProductReviews)
		apiV1.GET("/categories", publicHandler.GetCategories)
		apiV1.GET("/brands", publicHandler.GetBrands)
		apiV1.GET("/catalog/stats", publicHandler.GetCatalogStats)

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIP), publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), publicHandler.UserLogin)
			auth.POST("/token/refresh", publicHandler.RefreshToken)
			auth.POST("/token/verify", publicHandler.VerifyToken)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.POST("/auth/logout", publicHandler.UserLogout)
			user.POST("/auth/change-password", publicHandler.ChangePassword)

			user.GET("/users/profile", publicHandler.GetProfile)
			user.PUT("/users/profile", publicHandler.UpdateProfile)
			user.POST("/users/profile/avatar", publicHandler.UploadAvatar)
			user.GET("/users/details", publicHandler.GetUserDetails)
			user.PUT("/users/details", publicHandler.UpdateUserDetails)
			user.GET("/users/dashboard", publicHandler.GetUserDashboard)

			user.POST("/products/:slug/reviews", publicHandler.CreateProductReview)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/add", publicHandler.AddCartItem)
			user.PUT("/cart/item/:id/update", publicHandler.UpdateCartItem)
			user.DELETE("/cart/item/:id/remove", publicHandler.RemoveCartItem)
			user.DELETE("/cart/clear", publicHandler.ClearCart)

			user.GET("/addresses", publicHandler.ListAddresses)
			user.POST("/addresses", publicHandler.CreateAddress)
			user.GET("/addresses/:id", publicHandler.GetAddress)
			user.PUT("/addresses/:id", publicHandler.UpdateAddress)
			user.DELETE("/addresses/:id", publicHandler.DeleteAddress)
			user.POST("/addresses/:id/set-default", publicHandler.SetDefaultAddress)

			user.GET("/orders", publicHandler.ListOrders)
			user.POST("/orders/create", publicHandler.CreateOrder)
			user.GET("/orders/:order_number", publicHandler.GetOrder)
			user.POST("/orders/:order_number/cancel", publicHandler.CancelOrder)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Group("")
			authorized.Use(AdminJWTAuthMiddleware(cfg.AdminJWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)

				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.GET("/products/export", adminHandler.ExportProducts)
				authorized.POST("/products/import", adminHandler.ImportProducts)
				authorized.POST("/products/bulk", adminHandler.BulkProductAction)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/:id/images", adminHandler.UploadProductImage)
				authorized.POST("/products/:id/images/:image_id/primary", adminHandler.SetPrimaryProductImage)

				// 分类与品牌
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)
				authorized.GET("/brands", adminHandler.GetAdminBrands)
				authorized.POST("/brands", adminHandler.CreateBrand)
				authorized.PUT("/brands/:id", adminHandler.UpdateBrand)
				authorized.DELETE("/brands/:id", adminHandler.DeleteBrand)

				// 文件上传
				authorized.POST("/upload", adminHandler.UploadFile)

				// 订单管理
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/export", adminHandler.AdminExportOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
				authorized.GET("/ws/orders", adminHandler.OrderFeed)

				// 评价与用户
				authorized.GET("/reviews", adminHandler.GetAdminReviews)
				authorized.PATCH("/reviews/:id", adminHandler.UpdateReviewApproval)
				authorized.GET("/users", adminHandler.GetAdminUsers)

				// 权限管理
				authorized.GET("/authz/roles", adminHandler.GetAuthzRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				superOnly := authorized.Group("")
				superOnly.Use(SuperAdminOnlyMiddleware())
				{
					superOnly.GET("/admins", adminHandler.GetAdminAccounts)
					superOnly.POST("/admins", adminHandler.CreateAdminAccount)
					superOnly.PUT("/admins/:id/roles", adminHandler.SetAdminRoles)
				}
			}
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)

	return r
}

// healthHandler 数据库不可用时返回 500，Redis 未启用不影响结果
func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	status := gin.H{"database": "ok", "redis": "disabled"}
	healthy := true
	if models.DB == nil {
		status["database"] = "unavailable"
		healthy = false
	} else if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "unavailable"
		healthy = false
	}
	if cache.Enabled() {
		status["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			status["redis"] = "unavailable"
		}
	}
	if !healthy {
		response.ErrorWithData(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"), status)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "common.healthy"), status)
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
