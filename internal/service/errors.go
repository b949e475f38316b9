package service

import (
	"errors"
	"sort"
	"strings"
)

// 通用错误
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrAdminDisabled      = errors.New("admin disabled")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrAdminExists        = errors.New("admin already exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidRole        = errors.New("invalid admin role")
)

// 商品目录错误
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrBrandNotFound       = errors.New("brand not found")
	ErrSlugExists          = errors.New("slug already exists")
	ErrCategoryInUse       = errors.New("category has products")
	ErrBrandInUse          = errors.New("brand has products")
	ErrReviewExists        = errors.New("review already exists")
	ErrReviewNotFound      = errors.New("review not found")
	ErrImageNotFound       = errors.New("product image not found")
	ErrInvalidBulkAction   = errors.New("invalid bulk action")
)

// 购物车与订单错误
var (
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrCartEmpty               = errors.New("cart is empty")
	ErrCartChanged             = errors.New("cart changed during checkout")
	ErrAddressNotFound         = errors.New("address not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderCancelNotAllowed   = errors.New("order cannot be cancelled")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrInvalidPaymentStatus    = errors.New("invalid payment status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderNumberExhausted    = errors.New("order number generation exhausted")
)

// 上传错误
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrFileTypeNotAllow = errors.New("file type not allowed")
	ErrImageInvalid     = errors.New("image invalid")
	ErrStorageNotReady  = errors.New("storage not configured")
)

// 邮件错误
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)

// ValidationError 字段级校验错误，key 为字段名，value 为 i18n key 或说明
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError 创建单字段校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add 追加字段错误
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// HasErrors 是否存在字段错误
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil 无字段错误时返回 nil，便于收集后直接 return
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError 提取字段校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) && target != nil {
		return target, true
	}
	return nil, false
}
