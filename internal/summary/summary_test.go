package summary

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	in := Input{
		Lines: []domain.CartLineItem{
			{ProductID: "p1", Size: "M", UnitPrice: 2500, OriginalPrice: 3000, Quantity: 2},
		},
		TrialItemCount: 6,
		Coupon:         &domain.Coupon{Code: "FLAT500", Amount: 500},
		Policy:         pricing.DefaultPolicy(),
	}

	got := Compute(in)

	assert.Equal(t, pricing.Amount(5000), got.Subtotal)
	assert.Equal(t, pricing.Amount(500), got.Discount)
	assert.Equal(t, pricing.Amount(0), got.Shipping)
	assert.Equal(t, pricing.Amount(250), got.Tax)
	assert.Equal(t, pricing.Amount(4750), got.Total)
	assert.Equal(t, pricing.Amount(1000), got.Savings)
	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, 8, got.TotalItems)
	assert.Equal(t, "FLAT500", got.CouponCode)
}

func TestCompute_EmptyCartWithTrial(t *testing.T) {
	got := Compute(Input{TrialItemCount: 5, Policy: pricing.DefaultPolicy()})

	assert.Equal(t, pricing.Amount(0), got.Total)
	assert.Equal(t, 5, got.TotalItems)
	assert.Empty(t, got.CouponCode)
}

func TestTrialFees(t *testing.T) {
	got := TrialFees(499, 100, 7)

	assert.Equal(t, pricing.Amount(700), got.TotalDeposit)
	assert.Equal(t, pricing.Amount(1199), got.TotalPayable)
	assert.Equal(t, 7, got.ItemCount)
}

func TestBilling(t *testing.T) {
	tests := []struct {
		name    string
		fee     pricing.Amount
		kept    pricing.Amount
		deposit pricing.Amount
		want    pricing.Amount
	}{
		{"kept item exceeds deposit", 499, 2500, 1000, 1999},
		{"deposit exceeds costs", 499, 200, 1000, 0},
		{"exactly even", 500, 500, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Billing(tt.fee, tt.kept, tt.deposit)
			assert.Equal(t, tt.want, got.TotalDue)
			assert.Equal(t, tt.kept, got.KeptItemPrice)
		})
	}
}

func TestKeptItemPrice(t *testing.T) {
	items := []domain.HomeTrialItem{{ProductID: "p1", Price: 1800}, {ProductID: "p2", Price: 900}}

	assert.Equal(t, pricing.Amount(1800), KeptItemPrice(items, 2500))
	assert.Equal(t, pricing.Amount(2500), KeptItemPrice(nil, 2500))
	assert.Equal(t, pricing.Amount(2500), KeptItemPrice([]domain.HomeTrialItem{{Price: 0}}, 2500))
}
