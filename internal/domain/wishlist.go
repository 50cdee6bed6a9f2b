package domain

import "github.com/fjod/go_cart/storefront/internal/pricing"

// WishlistItem is keyed by slug; sizes are not tracked on the wishlist.
type WishlistItem struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Brand string         `json:"brand"`
	Price pricing.Amount `json:"price"`
	Image string         `json:"image"`
	Slug  string         `json:"slug"`
}

func NewWishlistItem(p Product) WishlistItem {
	return WishlistItem{
		ID:    p.Slug,
		Name:  p.Name,
		Brand: p.Brand,
		Price: pricing.ToAmount(p.DiscountedPrice),
		Image: p.Image,
		Slug:  p.Slug,
	}
}

// WishlistItemFromLine is used when a cart line is moved to the wishlist.
func WishlistItemFromLine(l CartLineItem) WishlistItem {
	return WishlistItem{
		ID:    l.Slug,
		Name:  l.Name,
		Brand: l.Brand,
		Price: l.UnitPrice,
		Image: l.Image,
		Slug:  l.Slug,
	}
}
