package admin

import (
	"github.com/tryon-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// OrderFeed 后台实时订单推送（websocket）
func (h *Handler) OrderFeed(c *gin.Context) {
	if h.OrderHub == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	if err := h.OrderHub.ServeWS(c.Writer, c.Request); err != nil {
		// 升级失败时 upgrader 已写回响应
		requestLog(c).Warnw("admin_order_feed_upgrade_failed", "error", err)
	}
}
