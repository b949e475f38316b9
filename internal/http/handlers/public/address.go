package public

import (
	"github.com/tryon-shop/internal/http/response"
	"github.com/tryon-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 收货地址请求
type AddressRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	AddressLine1 string `json:"address_line_1" binding:"required,max=255"`
	AddressLine2 string `json:"address_line_2" binding:"max=255"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	PostalCode   string `json:"postal_code" binding:"required,postal_code"`
	Country      string `json:"country" binding:"max=100"`
	PhoneNumber  string `json:"phone_number" binding:"required,in_phone"`
	IsDefault    bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Name:         r.Name,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		PhoneNumber:  r.PhoneNumber,
		IsDefault:    r.IsDefault,
	}
}

// ListAddresses 获取当前用户的收货地址
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增收货地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, "error.internal")
		return
	}
	createdWithKey(c, "address.created", address)
}

// GetAddress 获取单个收货地址
func (h *Handler) GetAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parsePathUint(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	address, err := h.AddressService.Get(uid, addressID)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, "error.internal")
		return
	}
	response.Success(c, address)
}

// UpdateAddress 修改收货地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parsePathUint(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	var req AddressRequest
	if !bindJSON(c, &req) {
		return
	}
	address, err := h.AddressService.Update(uid, addressID, req.toInput())
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, "error.internal")
		return
	}
	successWithKey(c, "address.updated", address)
}

// DeleteAddress 删除收货地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parsePathUint(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(uid, addressID); err != nil {
		respondWithMappedError(c, err, addressErrorRules, "error.internal")
		return
	}
	successWithKey(c, "address.deleted", nil)
}

// SetDefaultAddress 设为默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parsePathUint(c, "id", "error.address_not_found")
	if !ok {
		return
	}
	address, err := h.AddressService.SetDefault(uid, addressID)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, "error.internal")
		return
	}
	successWithKey(c, "address.default_set", address)
}
