package domain

import (
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/pricing"
)

// LineKey identifies a line in the cart or the trial bag.
type LineKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
}

func (k LineKey) String() string {
	return fmt.Sprintf("%s/%s", k.ProductID, k.Size)
}

type CartLineItem struct {
	ProductID     string         `json:"product_id"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand"`
	Image         string         `json:"image"`
	Slug          string         `json:"slug"`
	Size          string         `json:"size"`
	UnitPrice     pricing.Amount `json:"unit_price"`
	OriginalPrice pricing.Amount `json:"original_price,omitempty"` // 0 when the catalog has none
	Quantity      int            `json:"quantity"`
	InStock       bool           `json:"in_stock"`
}

func (i CartLineItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, Size: i.Size}
}

func (i CartLineItem) LineTotal() pricing.Amount {
	return i.UnitPrice * pricing.Amount(i.Quantity)
}

// NewCartLineItem builds a line for product in the given size.
func NewCartLineItem(p Product, size string, quantity int) CartLineItem {
	return CartLineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Image:         p.Image,
		Slug:          p.Slug,
		Size:          size,
		UnitPrice:     pricing.ToAmount(p.DiscountedPrice),
		OriginalPrice: pricing.ToAmount(p.OriginalPrice),
		Quantity:      quantity,
		InStock:       p.Available(),
	}
}
