package domain

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCartLineItem_NormalisesPrices(t *testing.T) {
	p := Product{
		ID:              "p1",
		Name:            "Linen Kurta",
		Brand:           "Vogueish",
		Slug:            "linen-kurta",
		DiscountedPrice: "₹2,500",
		OriginalPrice:   3200,
	}

	line := NewCartLineItem(p, "M", 2)

	assert.Equal(t, pricing.Amount(2500), line.UnitPrice)
	assert.Equal(t, pricing.Amount(3200), line.OriginalPrice)
	assert.Equal(t, pricing.Amount(5000), line.LineTotal())
	assert.Equal(t, LineKey{ProductID: "p1", Size: "M"}, line.Key())
	assert.True(t, line.InStock)
}

func TestProduct_Available(t *testing.T) {
	no := false
	assert.True(t, Product{}.Available())
	assert.False(t, Product{InStock: &no}.Available())
}

func TestProduct_HasSize(t *testing.T) {
	p := Product{Sizes: []string{"S", "M"}}
	assert.True(t, p.HasSize("M"))
	assert.False(t, p.HasSize("XL"))
	assert.True(t, Product{}.HasSize("XL"))
}

func TestCoupon_Discount(t *testing.T) {
	var none *Coupon
	assert.Equal(t, pricing.Amount(0), none.Discount(1000))

	fixed := &Coupon{Code: "FLAT200", Amount: 200}
	assert.Equal(t, pricing.Amount(200), fixed.Discount(1000))
	assert.Equal(t, pricing.Amount(150), fixed.Discount(150), "capped at subtotal")

	pct := &Coupon{Code: "TEN", Percent: decimal.NewFromInt(10)}
	assert.Equal(t, pricing.Amount(250), pct.Discount(2500))
	assert.Equal(t, pricing.Amount(0), pct.Discount(0))
}

func TestWishlistItemFromLine(t *testing.T) {
	line := CartLineItem{ProductID: "p1", Slug: "linen-kurta", Name: "Linen Kurta", UnitPrice: 2500}
	item := WishlistItemFromLine(line)
	assert.Equal(t, "linen-kurta", item.ID)
	assert.Equal(t, pricing.Amount(2500), item.Price)
}
