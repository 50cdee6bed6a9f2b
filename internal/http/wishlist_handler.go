package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/wishlist"
)

type WishlistHandler struct {
	sessions *session.Registry
	products catalog.Catalog
	timeout  time.Duration
}

func NewWishlistHandler(sessions *session.Registry, products catalog.Catalog, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		sessions: sessions,
		products: products,
		timeout:  timeout,
	}
}

type ToggleWishlistRequestDTO struct {
	Slug string `json:"slug"`
}

type WishlistResponseDTO struct {
	Items      []domain.WishlistItem `json:"items"`
	Wishlisted *bool                 `json:"wishlisted,omitempty"`
}

func wishlistResponse(s *wishlist.Store) WishlistResponseDTO {
	items := s.Items()
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return WishlistResponseDTO{Items: items}
}

// GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, wishlistResponse(bag.Wishlist))
}

// POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req ToggleWishlistRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "slug is required")
		return
	}

	product, err := h.products.Product(ctx, req.Slug)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	on := bag.Wishlist.Toggle(ctx, product)

	resp := wishlistResponse(bag.Wishlist)
	resp.Wishlisted = &on
	respondJSON(w, http.StatusOK, resp)
}
