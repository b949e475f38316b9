package public

import (
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selected_size" binding:"max=10"`
	SelectedColor string `json:"selected_color" binding:"max=50"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加入购物车，同款同尺码同颜色合并数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, messageKey, err := h.CartService.AddItem(uid, service.AddCartItemInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		SelectedSize:  req.SelectedSize,
		SelectedColor: req.SelectedColor,
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "error.internal")
		return
	}
	createdWithKey(c, messageKey, cart)
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parsePathUint(c, "id", "error.cart_item_not_found")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := h.CartService.UpdateItem(uid, itemID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "error.internal")
		return
	}
	successWithKey(c, "cart.item_updated", cart)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parsePathUint(c, "id", "error.cart_item_not_found")
	if !ok {
		return
	}
	cart, err := h.CartService.RemoveItem(uid, itemID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, "error.internal")
		return
	}
	successWithKey(c, "cart.item_removed", cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	cart, err := h.CartService.ClearCart(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithKey(c, "cart.cleared", cart)
}
