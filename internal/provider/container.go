package provider

import (
	"github.com/tryon-shop/internal/authz"
	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/events"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/queue"
	"github.com/tryon-shop/internal/realtime"
	"github.com/tryon-shop/internal/repository"
	"github.com/tryon-shop/internal/search"
	"github.com/tryon-shop/internal/service"
	"github.com/tryon-shop/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config       *config.Config
	QueueClient  *queue.Client
	Storage      storage.Storage
	SearchClient *search.Client
	Publisher    events.Publisher
	OrderHub     *realtime.Hub

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	RevokedTokenRepo repository.RevokedTokenRepository
	CategoryRepo     repository.CategoryRepository
	BrandRepo        repository.BrandRepository
	ProductRepo      repository.ProductRepository
	ProductImageRepo repository.ProductImageRepository
	ReviewRepo       repository.ReviewRepository
	CartRepo         repository.CartRepository
	AddressRepo      repository.AddressRepository
	OrderRepo        repository.OrderRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService            *authz.Service
	AdminAuthService        *service.AdminAuthService
	AdminAccountService     *service.AdminAccountService
	UserAuthService         *service.UserAuthService
	UserProfileService      *service.UserProfileService
	EmailService            *service.EmailService
	UploadService           *service.UploadService
	CatalogService          *service.CatalogService
	CategoryService         *service.CategoryService
	AdminProductService     *service.AdminProductService
	ReviewModerationService *service.ReviewModerationService
	ExportService           *service.ExportService
	CartService             *service.CartService
	AddressService          *service.AddressService
	OrderService            *service.OrderService
	DashboardService        *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "driver", cfg.Storage.Driver, "error", err)
		panic(err)
	}

	searchClient, err := search.NewClient(cfg.Search)
	if err != nil {
		logger.Warnw("provider_init_search_failed", "error", err)
		searchClient = nil
	}

	c := &Container{
		Config:       cfg,
		QueueClient:  queueClient,
		Storage:      store,
		SearchClient: searchClient,
		Publisher:    events.NewPublisher(cfg.Events),
		OrderHub:     realtime.NewHub(cfg.CORS.AllowedOrigins),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.RevokedTokenRepo = repository.NewRevokedTokenRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.BrandRepo = repository.NewBrandRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductImageRepo = repository.NewProductImageRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AdminAuthService = service.NewAdminAuthService(c.Config, c.AdminRepo)
	if _, err := c.AdminAuthService.EnsureBootstrapAdmin(); err != nil {
		logger.Warnw("provider_bootstrap_admin_failed", "error", err)
	}
	c.AdminAccountService = service.NewAdminAccountService(c.Config, c.AdminRepo, c.AuthzService)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.RevokedTokenRepo)
	c.UserProfileService = service.NewUserProfileService(c.UserRepo, c.OrderRepo, c.ReviewRepo, c.AddressRepo)
	c.UploadService = service.NewUploadService(c.Config.Upload, c.Storage)

	// 未启用搜索时不能把 nil *search.Client 传进接口
	var searcher service.ProductSearcher
	if c.SearchClient != nil {
		searcher = c.SearchClient
	}
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.CategoryRepo, c.BrandRepo, c.ReviewRepo, c.OrderRepo, c.DashboardRepo, searcher)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.BrandRepo)
	c.AdminProductService = service.NewAdminProductService(c.Config.Upload, c.ProductRepo, c.ProductImageRepo, c.CategoryRepo, c.BrandRepo, c.UploadService, c.QueueClient)
	c.ReviewModerationService = service.NewReviewModerationService(c.ReviewRepo, c.UserRepo)
	c.ExportService = service.NewExportService(c.ProductRepo, c.OrderRepo)
	c.CartService = service.NewCartService(c.Config.Order, c.CartRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.OrderService = service.NewOrderService(c.Config.Order, c.OrderRepo, c.CartRepo, c.AddressRepo, c.QueueClient, c.Publisher, c.OrderHub)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
