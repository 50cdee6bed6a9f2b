package cart

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
)

// Totals is the money breakdown of a set of cart lines.
type Totals struct {
	Subtotal  pricing.Amount `json:"subtotal"`
	Discount  pricing.Amount `json:"discount"`
	Shipping  pricing.Amount `json:"shipping_fee"`
	Tax       pricing.Amount `json:"tax"`
	Total     pricing.Amount `json:"total"`
	Savings   pricing.Amount `json:"savings"`
	ItemCount int            `json:"item_count"`
}

func Subtotal(lines []domain.CartLineItem) pricing.Amount {
	var sum pricing.Amount
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

func ItemCount(lines []domain.CartLineItem) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Savings sums what the buyer saves against original prices. Lines without an
// original price, or priced above it, contribute nothing.
func Savings(lines []domain.CartLineItem) pricing.Amount {
	var sum pricing.Amount
	for _, l := range lines {
		if l.OriginalPrice > l.UnitPrice {
			sum += (l.OriginalPrice - l.UnitPrice) * pricing.Amount(l.Quantity)
		}
	}
	return sum
}

// ComputeTotals applies coupon and policy to lines.
// Total = subtotal - discount + shipping + tax.
func ComputeTotals(lines []domain.CartLineItem, coupon *domain.Coupon, policy pricing.Policy) Totals {
	subtotal := Subtotal(lines)
	t := Totals{
		Subtotal:  subtotal,
		Discount:  coupon.Discount(subtotal),
		Shipping:  policy.Shipping(subtotal, len(lines) == 0),
		Tax:       policy.Tax(subtotal),
		Savings:   Savings(lines),
		ItemCount: ItemCount(lines),
	}
	t.Total = t.Subtotal - t.Discount + t.Shipping + t.Tax
	return t
}
