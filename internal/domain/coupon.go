package domain

import (
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

// Coupon comes from the promotions collaborator. A fixed Amount wins over Percent.
type Coupon struct {
	Code    string          `json:"code"`
	Amount  pricing.Amount  `json:"amount,omitempty"`
	Percent decimal.Decimal `json:"percent"`
}

// Discount returns the reduction for subtotal, never more than subtotal itself.
func (c *Coupon) Discount(subtotal pricing.Amount) pricing.Amount {
	if c == nil || subtotal <= 0 {
		return 0
	}
	d := c.Amount
	if d <= 0 {
		d = pricing.Percent(subtotal, c.Percent)
	}
	return min(max(d, 0), subtotal)
}
