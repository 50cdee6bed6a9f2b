package cart

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil, nil, pricing.DefaultPolicy())
	assert.Equal(t, Totals{}, got)
}

func TestComputeTotals_FixedCoupon(t *testing.T) {
	lines := []domain.CartLineItem{
		{ProductID: "p1", Size: "M", UnitPrice: 800, Quantity: 1},
	}
	coupon := &domain.Coupon{Code: "FLAT100", Amount: 100}

	got := ComputeTotals(lines, coupon, pricing.DefaultPolicy())

	assert.Equal(t, pricing.Amount(800), got.Subtotal)
	assert.Equal(t, pricing.Amount(100), got.Discount)
	assert.Equal(t, pricing.Amount(99), got.Shipping)
	assert.Equal(t, pricing.Amount(40), got.Tax)
	assert.Equal(t, pricing.Amount(800-100+99+40), got.Total)
}

func TestSavings_IgnoresUntrackedAndMarkups(t *testing.T) {
	lines := []domain.CartLineItem{
		{UnitPrice: 500, OriginalPrice: 0, Quantity: 2},
		{UnitPrice: 500, OriginalPrice: 400, Quantity: 1},
		{UnitPrice: 500, OriginalPrice: 700, Quantity: 3},
	}
	assert.Equal(t, pricing.Amount(600), Savings(lines))
}
