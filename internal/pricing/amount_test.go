package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Amount
	}{
		{"rupee string", "₹2,500", 2500},
		{"plain int", 2500, 2500},
		{"decimal string", "2500.00", 2500},
		{"empty string", "", 0},
		{"letters", "abc", 0},
		{"float", 1299.99, 1299},
		{"json number", json.Number("899"), 899},
		{"nil", nil, 0},
		{"only dot", ".", 0},
		{"unsupported type", struct{}{}, 0},
		{"rs prefix", "Rs. 1,999", 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToAmount(tt.in))
		})
	}
}

func TestToAmount_IdempotentOnNumbers(t *testing.T) {
	for _, v := range []any{0, 1, 2500, int64(99999)} {
		once := ToAmount(v)
		assert.Equal(t, once, ToAmount(once))
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹0", Format(0))
	assert.Equal(t, "₹499", Format(499))
	assert.Equal(t, "₹2,500", Format(2500))
	assert.Equal(t, "₹1,234,567", Format(1234567))
	assert.Equal(t, "-₹1,000", Format(-1000))
}

func TestPolicy_Shipping(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, Amount(99), p.Shipping(500, false))
	assert.Equal(t, Amount(99), p.Shipping(1998, false))
	assert.Equal(t, Amount(0), p.Shipping(1999, false))
	assert.Equal(t, Amount(0), p.Shipping(5000, false))
	assert.Equal(t, Amount(0), p.Shipping(0, true))
}

func TestPolicy_Tax(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, Amount(125), p.Tax(2500))
	assert.Equal(t, Amount(0), p.Tax(0))
	// 5% of 1010 is 50.5, rounded away from zero
	assert.Equal(t, Amount(51), p.Tax(1010))

	p.TaxPercent = decimal.Zero
	assert.Equal(t, Amount(0), p.Tax(2500))
}
