package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tryon-shop/internal/config"
	handlershared "github.com/tryon-shop/internal/http/handlers/shared"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/provider"
	"github.com/tryon-shop/internal/repository"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
		Total    int64 `json:"total"`
	} `json:"pagination"`
}

type publicTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	user   *models.User
}

func setupPublicTestEnv(t *testing.T) *publicTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handlershared.RegisterValidators()

	dsn := fmt.Sprintf("file:public_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderItem{},
	))
	models.DB = db

	cfg := &config.Config{App: config.AppConfig{Name: "tryon-test", Currency: "INR"}}
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	container := &provider.Container{
		Config:         cfg,
		CatalogService: service.NewCatalogService(productRepo, repository.NewCategoryRepository(db), repository.NewBrandRepository(db), repository.NewReviewRepository(db), orderRepo, repository.NewDashboardRepository(db), nil),
		CartService:    service.NewCartService(cfg.Order, cartRepo, productRepo),
		AddressService: service.NewAddressService(addressRepo),
		OrderService:   service.NewOrderService(cfg.Order, orderRepo, cartRepo, addressRepo, nil, nil, nil),
	}

	user := &models.User{Username: "meera", Email: "meera@example.com", FirstName: "Meera", LastName: "Iyer", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	h := New(container)
	r := gin.New()
	api := r.Group("/api/v1")
	api.GET("/products", h.GetProducts)
	authed := api.Group("")
	authed.Use(func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Next()
	})
	authed.POST("/cart/add", h.AddCartItem)
	authed.GET("/cart", h.GetCart)
	authed.POST("/addresses", h.CreateAddress)
	authed.GET("/addresses/:id", h.GetAddress)
	authed.POST("/orders/create", h.CreateOrder)

	return &publicTestEnv{db: db, router: r, user: user}
}

func (e *publicTestEnv) seedProducts(t *testing.T, prices ...int64) []*models.Product {
	t.Helper()
	category := &models.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	require.NoError(t, e.db.Create(category).Error)
	brand := &models.Brand{Name: "Acme Wear", Slug: "acme", IsActive: true}
	require.NoError(t, e.db.Create(brand).Error)
	products := make([]*models.Product, 0, len(prices))
	for i, price := range prices {
		product := &models.Product{
			Name:            fmt.Sprintf("Oxford Shirt %d", i+1),
			Slug:            fmt.Sprintf("oxford-shirt-%d", i+1),
			CategoryID:      category.ID,
			BrandID:         brand.ID,
			Price:           models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
			Gender:          "U",
			AvailableSizes:  "S,M,L",
			AvailableColors: "Black,White",
			StockQuantity:   20,
			IsAvailable:     true,
			IsActive:        true,
			TryOnCategory:   "tops",
		}
		require.NoError(t, e.db.Create(product).Error)
		products = append(products, product)
	}
	return products
}

func (e *publicTestEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestGetProductsLimitSkipsPagination(t *testing.T) {
	env := setupPublicTestEnv(t)
	env.seedProducts(t, 100, 200, 300)

	w, resp := env.do(t, http.MethodGet, "/api/v1/products?limit=2&sort=price_high", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, resp.Pagination)
	var limited []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &limited))
	require.Len(t, limited, 2)
	require.Equal(t, "oxford-shirt-3", limited[0].Slug)

	w, resp = env.do(t, http.MethodGet, "/api/v1/products?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Pagination)
	require.EqualValues(t, 3, resp.Pagination.Total)
	require.Equal(t, 2, resp.Pagination.PageSize)

	w, _ = env.do(t, http.MethodGet, "/api/v1/products?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindingErrorsUseFieldMap(t *testing.T) {
	env := setupPublicTestEnv(t)

	w, resp := env.do(t, http.MethodPost, "/api/v1/addresses", gin.H{
		"name":           "Meera",
		"address_line_1": "12 MG Road",
		"city":           "Pune",
		"state":          "MH",
		"postal_code":    "4110",
		"phone_number":   "12345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var data struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Contains(t, data.Errors, "postal_code")
	require.Contains(t, data.Errors, "phone_number")
	require.NotContains(t, data.Errors, "city")

	w, resp = env.do(t, http.MethodPost, "/api/v1/cart/add", gin.H{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	data.Errors = nil
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Contains(t, data.Errors, "product_id")
}

func TestInvalidPathIDIsNotFound(t *testing.T) {
	env := setupPublicTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/v1/addresses/abc", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	other := &models.ShippingAddress{UserID: env.user.ID + 100, Name: "Other", AddressLine1: "1 Street", City: "Delhi", State: "DL", PostalCode: "110001", Country: "India", PhoneNumber: "9876543210"}
	require.NoError(t, env.db.Create(other).Error)
	w, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/addresses/%d", other.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	env := setupPublicTestEnv(t)
	products := env.seedProducts(t, 100)

	w, resp := env.do(t, http.MethodPost, "/api/v1/addresses", gin.H{
		"name":           "Meera",
		"address_line_1": "12 MG Road",
		"city":           "Pune",
		"state":          "MH",
		"postal_code":    "411001",
		"phone_number":   "9876543210",
		"is_default":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Msg)
	var address models.ShippingAddress
	require.NoError(t, json.Unmarshal(resp.Data, &address))

	w, resp = env.do(t, http.MethodPost, "/api/v1/orders/create", gin.H{
		"shipping_address_id": address.ID,
		"phone_number":        "9876543210",
		"email":               "meera@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, "empty cart must not check out: %s", resp.Msg)
	var orders int64
	require.NoError(t, env.db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)

	w, _ = env.do(t, http.MethodPost, "/api/v1/cart/add", gin.H{"product_id": products[0].ID, "quantity": 2, "selected_size": "M"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/orders/create", gin.H{
		"shipping_address_id": address.ID,
		"phone_number":        "9876543210",
		"email":               "meera@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp.Msg)
	var order struct {
		OrderNumber string `json:"order_number"`
		Subtotal    string `json:"subtotal"`
		TaxAmount   string `json:"tax_amount"`
		Shipping    string `json:"shipping_amount"`
		TotalAmount string `json:"total_amount"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &order))
	require.Regexp(t, `^ORD[0-9A-F]{10}$`, order.OrderNumber)
	require.Equal(t, "200.00", order.Subtotal)
	require.Equal(t, "36.00", order.TaxAmount)
	require.Equal(t, "50.00", order.Shipping)
	require.Equal(t, "286.00", order.TotalAmount)
	require.Equal(t, "pending", order.Status)

	w, resp = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart service.CartView
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	require.True(t, cart.IsEmpty)
	require.Zero(t, cart.TotalItems)
}
