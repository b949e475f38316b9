package service

import (
	"testing"

	"github.com/tryon-shop/internal/config"

	"github.com/shopspring/decimal"
)

func defaultOrderConfig() config.OrderConfig {
	return config.OrderConfig{
		TaxRate:               "0.18",
		FlatShippingFee:       "50",
		FreeShippingThreshold: "500",
		MaxItemQuantity:       99,
	}
}

func TestCalculateTotalsAppliesFlatShippingBelowThreshold(t *testing.T) {
	totals := CalculateTotals([]PricingLine{{UnitPrice: decimal.NewFromInt(100), Quantity: 2}}, defaultOrderConfig())

	if totals.Subtotal.String() != "200.00" {
		t.Fatalf("subtotal want 200.00 got %s", totals.Subtotal.String())
	}
	if totals.TaxAmount.String() != "36.00" {
		t.Fatalf("tax want 36.00 got %s", totals.TaxAmount.String())
	}
	if totals.ShippingAmount.String() != "50.00" {
		t.Fatalf("shipping want 50.00 got %s", totals.ShippingAmount.String())
	}
	if totals.TotalAmount.String() != "286.00" {
		t.Fatalf("total want 286.00 got %s", totals.TotalAmount.String())
	}
}

func TestCalculateTotalsWaivesShippingAboveThreshold(t *testing.T) {
	cfg := defaultOrderConfig()
	cfg.FreeShippingThreshold = "150"
	totals := CalculateTotals([]PricingLine{{UnitPrice: decimal.NewFromInt(100), Quantity: 2}}, cfg)

	if !totals.ShippingAmount.IsZero() {
		t.Fatalf("shipping want 0 got %s", totals.ShippingAmount.String())
	}
	if totals.TotalAmount.String() != "236.00" {
		t.Fatalf("total want 236.00 got %s", totals.TotalAmount.String())
	}
}

func TestCalculateTotalsThresholdIsInclusive(t *testing.T) {
	totals := CalculateTotals([]PricingLine{{UnitPrice: decimal.NewFromInt(250), Quantity: 2}}, defaultOrderConfig())
	if !totals.ShippingAmount.IsZero() {
		t.Fatalf("subtotal equal to threshold should ship free, got %s", totals.ShippingAmount.String())
	}

	cfg := defaultOrderConfig()
	cfg.FreeShippingThreshold = "200"
	totals = CalculateTotals([]PricingLine{{UnitPrice: decimal.NewFromInt(100), Quantity: 2}}, cfg)
	if !totals.ShippingAmount.IsZero() {
		t.Fatalf("shipping want 0 at threshold 200 got %s", totals.ShippingAmount.String())
	}
	if totals.TotalAmount.String() != "236.00" {
		t.Fatalf("total want 236.00 got %s", totals.TotalAmount.String())
	}

	cfg.FreeShippingThreshold = "200.01"
	totals = CalculateTotals([]PricingLine{{UnitPrice: decimal.NewFromInt(100), Quantity: 2}}, cfg)
	if totals.ShippingAmount.String() != "50.00" {
		t.Fatalf("shipping want 50.00 just below threshold got %s", totals.ShippingAmount.String())
	}
}

func TestCalculateTotalsRoundsTax(t *testing.T) {
	totals := CalculateTotals([]PricingLine{{UnitPrice: decimal.RequireFromString("10.99"), Quantity: 3}}, defaultOrderConfig())
	// 32.97 * 0.18 = 5.9346
	if totals.TaxAmount.String() != "5.93" {
		t.Fatalf("tax want 5.93 got %s", totals.TaxAmount.String())
	}
	sum := totals.Subtotal.Add(totals.TaxAmount.Decimal).Add(totals.ShippingAmount.Decimal).Sub(totals.DiscountAmount.Decimal)
	if !sum.Equal(totals.TotalAmount.Decimal) {
		t.Fatalf("total want %s got %s", sum.StringFixed(2), totals.TotalAmount.String())
	}
}

func TestCalculateTotalsFallsBackOnInvalidConfig(t *testing.T) {
	totals := CalculateTotals([]PricingLine{{UnitPrice: decimal.NewFromInt(100), Quantity: 1}}, config.OrderConfig{TaxRate: "abc"})
	if totals.TaxAmount.String() != "18.00" {
		t.Fatalf("tax want 18.00 got %s", totals.TaxAmount.String())
	}
	if totals.ShippingAmount.String() != "50.00" {
		t.Fatalf("shipping want 50.00 got %s", totals.ShippingAmount.String())
	}
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
