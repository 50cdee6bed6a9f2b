package domain

import "github.com/fjod/go_cart/storefront/internal/pricing"

// HomeTrialItem is a product selected for the try-at-home bag.
type HomeTrialItem struct {
	ProductID string         `json:"product_id"`
	Name      string         `json:"name"`
	Brand     string         `json:"brand"`
	Image     string         `json:"image"`
	Slug      string         `json:"slug"`
	Size      string         `json:"size"`
	Price     pricing.Amount `json:"price"`
}

func (i HomeTrialItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, Size: i.Size}
}

func NewHomeTrialItem(p Product, size string) HomeTrialItem {
	return HomeTrialItem{
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Image:     p.Image,
		Slug:      p.Slug,
		Size:      size,
		Price:     pricing.ToAmount(p.DiscountedPrice),
	}
}
