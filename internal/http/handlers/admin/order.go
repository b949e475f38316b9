package admin

import (
	"bytes"
	"strings"

	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/repository"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	PaymentStatus string `json:"payment_status"`
}

func buildAdminOrderFilter(c *gin.Context) (repository.OrderListFilter, error) {
	page, pageSize := parsePagination(c)
	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return repository.OrderListFilter{}, err
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		return repository.OrderListFilter{}, err
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		return repository.OrderListFilter{}, err
	}
	return repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        userID,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderNumber:   strings.TrimSpace(c.Query("order_number")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	}, nil
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	filter, err := buildAdminOrderFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	orders, total, err := h.OrderService.ListOrdersForAdmin(filter)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(filter.Page, filter.PageSize, total))
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 按状态流转表修改订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := parsePathUint(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.OrderService.UpdateOrderStatusForAdmin(c.Request.Context(), id, service.AdminOrderStatusInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.internal")
		return
	}
	adminID, _ := c.Get("admin_id")
	requestLog(c).Infow("admin_order_status_updated", "admin_id", adminID, "order_id", id, "status", order.Status)
	response.Success(c, order)
}

// AdminExportOrders 按当前筛选条件导出订单 xlsx
func (h *Handler) AdminExportOrders(c *gin.Context) {
	filter, err := buildAdminOrderFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var buf bytes.Buffer
	if err := h.ExportService.ExportOrders(&buf, filter); err != nil {
		respondWithMappedError(c, err, orderErrorRules, "error.export_failed")
		return
	}
	writeXLSX(c, "orders", buf.Bytes())
}
