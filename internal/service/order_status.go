package service

import (
	"strings"

	"github.com/tryon-shop/internal/constants"
)

// orderStatusTransitions 后台可执行的订单状态流转
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed:  {constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	constants.OrderStatusProcessing: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered},
	constants.OrderStatusDelivered:  {constants.OrderStatusRefunded},
}

func normalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	return containsString(constants.ValidOrderStatuses(), normalizeOrderStatus(status))
}

// IsValidPaymentStatus 判断支付状态是否合法
func IsValidPaymentStatus(status string) bool {
	return containsString(constants.ValidPaymentStatuses(), normalizeOrderStatus(status))
}

// CanTransitionOrderStatus 判断状态流转是否允许
func CanTransitionOrderStatus(from, to string) bool {
	return containsString(orderStatusTransitions[normalizeOrderStatus(from)], normalizeOrderStatus(to))
}

// IsCancellableOrderStatus 判断用户是否可以取消
func IsCancellableOrderStatus(status string) bool {
	return containsString(constants.CancellableOrderStatuses(), normalizeOrderStatus(status))
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
