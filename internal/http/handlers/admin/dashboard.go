package admin

import (
	"strconv"
	"strings"

	"github.com/tryon-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取后台仪表盘总览，refresh=true 时跳过缓存
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	forceRefresh := strings.EqualFold(strings.TrimSpace(c.Query("refresh")), "true")
	data, err := h.DashboardService.Overview(c.Request.Context(), forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, data)
}

// GetDashboardTrends 获取订单趋势
func (h *Handler) GetDashboardTrends(c *gin.Context) {
	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		days = parsed
	}
	data, err := h.DashboardService.Trends(days)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, data)
}
