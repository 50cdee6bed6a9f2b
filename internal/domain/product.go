package domain

import "slices"

// Product is a catalog entry as supplied by the catalog collaborator. Prices may
// arrive as numbers or as display strings ("₹2,500"); they are converted with
// pricing.ToAmount whenever an item is built from the product.
type Product struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Brand           string   `json:"brand" yaml:"brand"`
	Image           string   `json:"image" yaml:"image"`
	Slug            string   `json:"slug" yaml:"slug"`
	Sizes           []string `json:"sizes,omitempty" yaml:"sizes"`
	DiscountedPrice any      `json:"discountedPrice" yaml:"discountedPrice"`
	OriginalPrice   any      `json:"originalPrice,omitempty" yaml:"originalPrice"`
	InStock         *bool    `json:"inStock,omitempty" yaml:"inStock"`
}

// Available reports stock availability; products that do not say are assumed in stock.
func (p Product) Available() bool {
	return p.InStock == nil || *p.InStock
}

// HasSize reports whether size is offered. Products without a size list accept any size.
func (p Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	return slices.Contains(p.Sizes, size)
}
