package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tryon-shop/internal/cache"
	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/constants"
	"github.com/tryon-shop/internal/events"
	"github.com/tryon-shop/internal/logger"
	"github.com/tryon-shop/internal/models"
	"github.com/tryon-shop/internal/queue"
	"github.com/tryon-shop/internal/realtime"
	"github.com/tryon-shop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	orderNumberRandomLength = 10
	orderNumberMaxAttempts  = 3
	orderEventTimeout       = 3 * time.Second
)

// OrderFeed 后台实时订单推送
type OrderFeed interface {
	Broadcast(msg realtime.Message)
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	ShippingAddressID     uint
	BillingSameAsShipping *bool
	BillingAddressID      uint
	PhoneNumber           string
	Email                 string
	Notes                 string
}

// AdminOrderStatusInput 后台修改订单状态输入
type AdminOrderStatusInput struct {
	Status        string
	PaymentStatus string
}

// OrderService 订单服务
type OrderService struct {
	orderCfg    config.OrderConfig
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	queueClient *queue.Client
	publisher   events.Publisher
	feed        OrderFeed
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderCfg config.OrderConfig,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	queueClient *queue.Client,
	publisher events.Publisher,
	feed OrderFeed,
) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		orderCfg:    orderCfg,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		queueClient: queueClient,
		publisher:   publisher,
		feed:        feed,
	}
}

// CreateOrder 从购物车创建订单
// 订单、订单项与清空购物车在同一事务内完成。
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, input CreateOrderInput) (*models.Order, error) {
	phone, email, err := normalizeOrderContact(input)
	if err != nil {
		return nil, err
	}

	shipping, err := s.addressRepo.GetByIDAndUser(input.ShippingAddressID, userID)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return nil, ErrAddressNotFound
	}
	billing := shipping
	if input.BillingSameAsShipping != nil && !*input.BillingSameAsShipping {
		if input.BillingAddressID == 0 {
			return nil, NewValidationError("billing_address_id", "error.field_required")
		}
		billing, err = s.addressRepo.GetByIDAndUser(input.BillingAddressID, userID)
		if err != nil {
			return nil, err
		}
		if billing == nil {
			return nil, ErrAddressNotFound
		}
	}

	var (
		order      *models.Order
		orderItems []models.OrderItem
	)
	// 购物车在事务内读取，只删除本次快照到的项；删除行数不符说明被并发结算取走，整体回滚
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartEmpty
		}
		cartItems, err := cartRepo.ListItems(cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		now := time.Now()
		orderItems = make([]models.OrderItem, 0, len(cartItems))
		itemIDs := make([]uint, 0, len(cartItems))
		for i := range cartItems {
			item := &cartItems[i]
			if item.Product == nil {
				return ErrProductNotAvailable
			}
			itemIDs = append(itemIDs, item.ID)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				ProductName:   item.Product.Name,
				ProductSKU:    buildProductSKU(item.Product, item.SelectedSize, item.SelectedColor),
				SelectedSize:  item.SelectedSize,
				SelectedColor: item.SelectedColor,
				UnitPrice:     item.UnitPrice,
				TotalPrice:    item.TotalPrice(),
				CreatedAt:     now,
			})
		}

		totals := CalculateTotals(pricingLinesFromCart(cartItems), s.orderCfg)
		order = &models.Order{
			UserID:          userID,
			Status:          constants.OrderStatusPending,
			PaymentStatus:   constants.PaymentStatusPending,
			Subtotal:        totals.Subtotal,
			TaxAmount:       totals.TaxAmount,
			ShippingAmount:  totals.ShippingAmount,
			DiscountAmount:  totals.DiscountAmount,
			TotalAmount:     totals.TotalAmount,
			ShippingAddress: addressSnapshot(shipping),
			ShippingCity:    shipping.City,
			ShippingState:   shipping.State,
			ShippingPostal:  shipping.PostalCode,
			ShippingCountry: shipping.Country,
			BillingAddress:  addressSnapshot(billing),
			BillingCity:     billing.City,
			BillingState:    billing.State,
			BillingPostal:   billing.PostalCode,
			BillingCountry:  billing.Country,
			PhoneNumber:     phone,
			Email:           email,
			Notes:           strings.TrimSpace(input.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderNumber, err := s.nextOrderNumber(orderRepo)
		if err != nil {
			return err
		}
		order.OrderNumber = orderNumber
		if err := orderRepo.Create(order, orderItems); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		deleted, err := cartRepo.DeleteItems(cart.ID, itemIDs)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if deleted != int64(len(itemIDs)) {
			return ErrCartChanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.GetByID(order.ID)
	if err != nil || created == nil {
		created = order
		created.Items = orderItems
	}
	s.afterOrderChanged(ctx, created, constants.EventOrderCreated)
	return created, nil
}

// ListOrders 用户订单列表
func (s *OrderService) ListOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetOrder 用户订单详情，他人订单与不存在一致返回 ErrOrderNotFound
func (s *OrderService) GetOrder(userID uint, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByNumberAndUser(orderNumber, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder 用户取消订单，仅待确认与已确认状态可取消
func (s *OrderService) CancelOrder(ctx context.Context, userID uint, orderNumber string) (*models.Order, error) {
	order, err := s.GetOrder(userID, orderNumber)
	if err != nil {
		return nil, err
	}
	if !IsCancellableOrderStatus(order.Status) {
		return nil, ErrOrderCancelNotAllowed
	}

	affected, err := s.orderRepo.UpdateStatusFrom(order.ID, constants.CancellableOrderStatuses(), map[string]interface{}{
		"status":     constants.OrderStatusCancelled,
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 并发下状态已被改走
		return nil, ErrOrderCancelNotAllowed
	}

	updated, err := s.GetOrder(userID, order.OrderNumber)
	if err != nil {
		return nil, err
	}
	s.afterOrderChanged(ctx, updated, constants.EventOrderCancelled)
	return updated, nil
}

// ListOrdersForAdmin 后台订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !IsValidOrderStatus(filter.Status) {
		return nil, 0, ErrInvalidOrderStatus
	}
	if filter.PaymentStatus != "" && !IsValidPaymentStatus(filter.PaymentStatus) {
		return nil, 0, ErrInvalidPaymentStatus
	}
	filter.Status = normalizeOrderStatus(filter.Status)
	filter.PaymentStatus = normalizeOrderStatus(filter.PaymentStatus)
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 后台订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatusForAdmin 后台更新订单状态或支付状态
func (s *OrderService) UpdateOrderStatusForAdmin(ctx context.Context, orderID uint, input AdminOrderStatusInput) (*models.Order, error) {
	status := normalizeOrderStatus(input.Status)
	paymentStatus := normalizeOrderStatus(input.PaymentStatus)
	if status == "" && paymentStatus == "" {
		return nil, NewValidationError("status", "error.field_required")
	}
	if status != "" && !IsValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}
	if paymentStatus != "" && !IsValidPaymentStatus(paymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	order, err := s.GetOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	statusChanged := false
	if status != "" && status != order.Status {
		if !CanTransitionOrderStatus(order.Status, status) {
			return nil, ErrInvalidStatusTransition
		}
		updates["status"] = status
		switch status {
		case constants.OrderStatusShipped:
			updates["shipped_at"] = now
		case constants.OrderStatusDelivered:
			updates["delivered_at"] = now
		}
		statusChanged = true
	}
	if paymentStatus != "" && paymentStatus != order.PaymentStatus {
		updates["payment_status"] = paymentStatus
		statusChanged = true
	}
	if !statusChanged {
		return order, nil
	}

	affected, err := s.orderRepo.UpdateStatusFrom(order.ID, []string{order.Status}, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.GetOrderForAdmin(order.ID)
	if err != nil {
		return nil, err
	}
	s.afterOrderChanged(ctx, updated, constants.EventOrderStatusChanged)
	return updated, nil
}

// nextOrderNumber 生成未被占用的订单号，冲突时最多重试 3 次
func (s *OrderService) nextOrderNumber(orderRepo repository.OrderRepository) (string, error) {
	prefix := strings.ToUpper(strings.TrimSpace(s.orderCfg.OrderNumberPrefix))
	if prefix == "" {
		prefix = "ORD"
	}
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		candidate := generateOrderNumber(prefix)
		count, err := orderRepo.CountByNumber(candidate)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		logger.Warnw("order_number_collision", "order_number", candidate, "attempt", attempt+1)
	}
	return "", ErrOrderNumberExhausted
}

func generateOrderNumber(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:orderNumberRandomLength])
}

// afterOrderChanged 提交后的通知、事件与实时推送，失败只记录日志
func (s *OrderService) afterOrderChanged(ctx context.Context, order *models.Order, eventType string) {
	if order == nil {
		return
	}
	log := logger.SW("order_number", order.OrderNumber)

	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID: order.ID,
		Status:  order.Status,
	}); err != nil {
		log.Warnw("order_notify_enqueue_failed", "error", err)
	}

	event := buildOrderEvent(order, eventType)
	publishCtx, cancel := context.WithTimeout(detachContext(ctx), orderEventTimeout)
	defer cancel()
	if err := s.publisher.PublishOrderEvent(publishCtx, event); err != nil {
		log.Warnw("order_event_publish_failed", "event", eventType, "error", err)
	}

	if s.feed != nil {
		s.feed.Broadcast(realtime.Message{Type: eventType, Data: event})
	}

	if err := cache.InvalidateDashboardOverview(ctx); err != nil {
		log.Debugw("dashboard_cache_invalidate_failed", "error", err)
	}
}

func buildOrderEvent(order *models.Order, eventType string) events.OrderEvent {
	return events.OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount.String(),
		TotalItems:    order.TotalItems(),
		OccurredAt:    time.Now().UTC(),
	}
}

// detachContext 请求结束后事件投递仍需完成
func detachContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

func normalizeOrderContact(input CreateOrderInput) (string, string, error) {
	verr := &ValidationError{}
	if input.ShippingAddressID == 0 {
		verr.Add("shipping_address_id", "error.field_required")
	}
	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		verr.Add("phone_number", "error.field_required")
	} else if !ValidPhoneNumber(phone) {
		verr.Add("phone_number", "error.phone_invalid")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) && strings.TrimSpace(input.Email) == "" {
			verr.Add("email", "error.field_required")
		} else {
			verr.Add("email", "error.email_invalid")
		}
	}
	if verr.HasErrors() {
		return "", "", verr
	}
	return phone, email, nil
}

func addressSnapshot(address *models.ShippingAddress) string {
	return fmt.Sprintf("%s, %s", address.Name, address.Line())
}

// buildProductSKU 由 slug 与所选规格拼出下单时的商品编码
func buildProductSKU(product *models.Product, size, color string) string {
	parts := []string{strings.ToUpper(product.Slug)}
	if size != "" {
		parts = append(parts, strings.ToUpper(size))
	}
	if color != "" {
		parts = append(parts, strings.ToUpper(strings.ReplaceAll(color, " ", "")))
	}
	sku := strings.Join(parts, "-")
	if len(sku) > 100 {
		sku = sku[:100]
	}
	return sku
}
