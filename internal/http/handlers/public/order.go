package public

import (
	"strings"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 结算下单请求
type CreateOrderRequest struct {
	ShippingAddressID     uint   `json:"shipping_address_id" binding:"required"`
	BillingSameAsShipping *bool  `json:"billing_same_as_shipping"`
	BillingAddressID      uint   `json:"billing_address_id"`
	PhoneNumber           string `json:"phone_number" binding:"required,in_phone"`
	Email                 string `json:"email" binding:"required,email"`
	Notes                 string `json:"notes" binding:"max=1000"`
}

// CreateOrder 从购物车创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.OrderService.CreateOrder(c.Request.Context(), uid, service.CreateOrderInput{
		ShippingAddressID:     req.ShippingAddressID,
		BillingSameAsShipping: req.BillingSameAsShipping,
		BillingAddressID:      req.BillingAddressID,
		PhoneNumber:           req.PhoneNumber,
		Email:                 req.Email,
		Notes:                 req.Notes,
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	createdWithKey(c, "order.created", order)
}

// ListOrders 获取当前用户订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	orders, total, err := h.OrderService.ListOrders(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 按订单号获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(uid, strings.TrimSpace(c.Param("order_number")))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单，仅待确认与已确认状态可取消
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.CancelOrder(c.Request.Context(), uid, strings.TrimSpace(c.Param("order_number")))
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	successWithKey(c, "order.cancelled", order)
}
