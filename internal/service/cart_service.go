package service

import (
	"strings"
	"time"

	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// 购物车提示消息 key
const (
	CartMessageItemAdded   = "cart.item_added"
	CartMessageItemUpdated = "cart.item_updated"
	CartMessageItemRemoved = "cart.item_removed"
	CartMessageCleared     = "cart.cleared"
)

// CartItemView 购物车项（含小计）
type CartItemView struct {
	ID            uint            `json:"id"`
	Product       *models.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selected_size"`
	SelectedColor string          `json:"selected_color"`
	UnitPrice     models.Money    `json:"unit_price"`
	TotalPrice    models.Money    `json:"total_price"`
	AddedAt       time.Time       `json:"added_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CartView 购物车视图，合计为派生值
type CartView struct {
	ID         uint           `json:"id"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice models.Money   `json:"total_price"`
	IsEmpty    bool           `json:"is_empty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// AddCartItemInput 加入购物车输入
type AddCartItemInput struct {
	ProductID     uint
	Quantity      int
	SelectedSize  string
	SelectedColor string
}

// CartService 购物车服务
type CartService struct {
	orderCfg    config.OrderConfig
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(orderCfg config.OrderConfig, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		orderCfg:    orderCfg,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart 获取（必要时创建）用户购物车
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

// AddItem 加入购物车；相同商品与规格合并数量，超出上限时截断到上限
func (s *CartService) AddItem(userID uint, input AddCartItemInput) (*CartView, string, error) {
	maxQty := s.orderCfg.MaxQuantity()
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > maxQty {
		return nil, "", NewValidationError("quantity", "error.cart_quantity_range")
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", ErrProductNotFound
	}
	if !product.IsActive || !product.IsAvailable {
		return nil, "", ErrProductNotAvailable
	}

	size, color, err := resolveProductOptions(product, input.SelectedSize, input.SelectedColor)
	if err != nil {
		return nil, "", err
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, "", err
	}

	message, err := s.upsertItem(cart.ID, product, size, color, quantity, maxQty)
	if err != nil {
		return nil, "", err
	}
	view, err := s.buildView(cart)
	if err != nil {
		return nil, "", err
	}
	return view, message, nil
}

func (s *CartService) upsertItem(cartID uint, product *models.Product, size, color string, quantity, maxQty int) (string, error) {
	existing, err := s.cartRepo.GetItem(cartID, product.ID, size, color)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if err := s.cartRepo.MergeItemQuantity(existing.ID, quantity, maxQty); err != nil {
			return "", err
		}
		return CartMessageItemUpdated, nil
	}

	item := &models.CartItem{
		CartID:        cartID,
		ProductID:     product.ID,
		Quantity:      quantity,
		SelectedSize:  size,
		SelectedColor: color,
		UnitPrice:     product.CurrentPrice(),
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		if !repository.IsUniqueViolation(err) {
			return "", err
		}
		// 并发加入同一规格，落败方读取已存在行后合并
		existing, err = s.cartRepo.GetItem(cartID, product.ID, size, color)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", ErrCartItemNotFound
		}
		if err := s.cartRepo.MergeItemQuantity(existing.ID, quantity, maxQty); err != nil {
			return "", err
		}
		return CartMessageItemUpdated, nil
	}
	return CartMessageItemAdded, nil
}

// UpdateItem 修改购物车项数量
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*CartView, error) {
	if quantity < 1 || quantity > s.orderCfg.MaxQuantity() {
		return nil, NewValidationError("quantity", "error.cart_quantity_range")
	}
	item, err := s.cartRepo.GetItemForUser(itemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) (*CartView, error) {
	item, err := s.cartRepo.GetItemForUser(itemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// ClearCart 清空购物车；购物车不存在时返回空视图
func (s *CartService) ClearCart(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartView{Items: []CartItemView{}, IsEmpty: true}, nil
	}
	if _, err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

func (s *CartService) buildView(cart *models.Cart) (*CartView, error) {
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	return newCartView(cart, items), nil
}

func newCartView(cart *models.Cart, items []models.CartItem) *CartView {
	view := &CartView{
		ID:        cart.ID,
		Items:     make([]CartItemView, 0, len(items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	subtotal := decimal.Zero
	for _, item := range items {
		view.Items = append(view.Items, CartItemView{
			ID:            item.ID,
			Product:       item.Product,
			Quantity:      item.Quantity,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
			UnitPrice:     item.UnitPrice,
			TotalPrice:    item.TotalPrice(),
			AddedAt:       item.CreatedAt,
			UpdatedAt:     item.UpdatedAt,
		})
		view.TotalItems += item.Quantity
		subtotal = subtotal.Add(item.TotalPrice().Decimal)
	}
	view.TotalPrice = models.NewMoneyFromDecimal(subtotal)
	view.IsEmpty = len(view.Items) == 0
	return view
}

// resolveProductOptions 校验尺码与颜色是否在商品可选列表内，返回规范化后的取值
func resolveProductOptions(product *models.Product, size, color string) (string, string, error) {
	verr := &ValidationError{}
	resolvedSize, ok := matchOption(product.SizeList(), size)
	if !ok {
		verr.Add("selected_size", "error.cart_size_invalid")
	}
	resolvedColor, ok := matchOption(product.ColorList(), color)
	if !ok {
		verr.Add("selected_color", "error.cart_color_invalid")
	}
	if err := verr.OrNil(); err != nil {
		return "", "", err
	}
	return resolvedSize, resolvedColor, nil
}

func matchOption(options []string, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true
	}
	for _, option := range options {
		if strings.EqualFold(option, value) {
			return option, true
		}
	}
	return "", false
}
