package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Policy holds the shipping and tax rules applied to a cart subtotal.
type Policy struct {
	FreeShippingThreshold Amount
	ShippingFee           Amount
	TaxPercent            decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: 1999,
		ShippingFee:           99,
		TaxPercent:            decimal.NewFromInt(5),
	}
}

// Shipping returns the fee charged for a cart with the given subtotal.
// Empty carts ship nothing and pay nothing.
func (p Policy) Shipping(subtotal Amount, empty bool) Amount {
	if empty || subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFee
}

func (p Policy) Tax(subtotal Amount) Amount {
	return Percent(subtotal, p.TaxPercent)
}

// Percent returns pct percent of a, rounded to the nearest whole amount.
func Percent(a Amount, pct decimal.Decimal) Amount {
	if a <= 0 || !pct.IsPositive() {
		return 0
	}
	v := decimal.NewFromInt(int64(a)).Mul(pct).Div(hundred).Round(0)
	return Amount(v.IntPart())
}
