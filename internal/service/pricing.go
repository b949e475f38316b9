package service

import (
	"github.com/tryon-shop/internal/config"
	"github.com/tryon-shop/internal/models"

	"github.com/shopspring/decimal"
)

// PricingLine 计价行（单价 × 数量）
type PricingLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// OrderTotals 订单金额汇总
type OrderTotals struct {
	Subtotal       models.Money `json:"subtotal"`
	TaxAmount      models.Money `json:"tax_amount"`
	ShippingAmount models.Money `json:"shipping_amount"`
	DiscountAmount models.Money `json:"discount_amount"`
	TotalAmount    models.Money `json:"total_amount"`
}

// CalculateTotals 按配置计算小计、税费、运费与合计
// 税费四舍五入到分；小计严格大于包邮门槛时免运费。
func CalculateTotals(lines []PricingLine, cfg config.OrderConfig) OrderTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(cfg.TaxRateDecimal()).Round(2)
	// 达到门槛即包邮，低于门槛收固定运费
	shipping := cfg.FlatShippingFeeDecimal()
	if subtotal.GreaterThanOrEqual(cfg.FreeShippingThresholdDecimal()) {
		shipping = decimal.Zero
	}
	discount := decimal.Zero
	total := subtotal.Add(tax).Add(shipping).Sub(discount)

	return OrderTotals{
		Subtotal:       models.NewMoneyFromDecimal(subtotal),
		TaxAmount:      models.NewMoneyFromDecimal(tax),
		ShippingAmount: models.NewMoneyFromDecimal(shipping),
		DiscountAmount: models.NewMoneyFromDecimal(discount),
		TotalAmount:    models.NewMoneyFromDecimal(total),
	}
}

func pricingLinesFromCart(items []models.CartItem) []PricingLine {
	lines := make([]PricingLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, PricingLine{UnitPrice: item.UnitPrice.Decimal, Quantity: item.Quantity})
	}
	return lines
}
