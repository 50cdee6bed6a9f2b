package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxQuantity = 99

type CartHandler struct {
	sessions *session.Registry
	products catalog.Catalog
	log      *zap.Logger
	timeout  time.Duration
}

func NewCartHandler(sessions *session.Registry, products catalog.Catalog, log *zap.Logger, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		products: products,
		log:      log,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	Slug     string `json:"slug"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity,omitempty"` // omitted adds one
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequestDTO struct {
	Code    string          `json:"code"`
	Amount  pricing.Amount  `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

type CartResponseDTO struct {
	Items  []domain.CartLineItem `json:"items"`
	Coupon *domain.Coupon        `json:"coupon,omitempty"`
	cart.Totals
}

func cartResponse(s *cart.Store) CartResponseDTO {
	items := s.Items()
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return CartResponseDTO{
		Items:  items,
		Coupon: s.Coupon(),
		Totals: s.Totals(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "slug is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99, or omitted to add one")
		return
	}

	product, err := h.products.Product(ctx, req.Slug)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	if req.Size == "" || !product.HasSize(req.Size) {
		respondError(w, http.StatusBadRequest, "invalid_size", "Please select a size")
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	bag.Cart.AddItem(ctx, product, req.Size, req.Quantity)

	h.log.Debug("cart item added",
		zap.String("request_id", getRequestID(r.Context())),
		zap.String("session", sessionID),
		zap.String("slug", req.Slug),
		zap.String("size", req.Size))

	respondJSON(w, http.StatusCreated, cartResponse(bag.Cart))
}

// PUT /api/v1/cart/items/{product_id}/{size}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	key, ok := lineKeyFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	// zero and below remove the line
	if req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	bag.Cart.UpdateQuantity(ctx, key, req.Quantity)
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

// DELETE /api/v1/cart/items/{product_id}/{size}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	key, ok := lineKeyFromPath(w, r)
	if !ok {
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	bag.Cart.RemoveItem(ctx, key)
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

// POST /api/v1/cart/items/{product_id}/{size}/wishlist
func (h *CartHandler) MoveToWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	key, ok := lineKeyFromPath(w, r)
	if !ok {
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	bag.Cart.MoveToWishlist(ctx, key)
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	bag.Cart.Clear(ctx)
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

// PUT /api/v1/cart/coupon
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_coupon", "code is required")
		return
	}
	if req.Amount < 0 || req.Percent.IsNegative() || req.Percent.GreaterThan(decimal.NewFromInt(100)) {
		respondErrorDetails(w, http.StatusBadRequest, "invalid_coupon", "invalid coupon value",
			"amount must not be negative and percent must be between 0 and 100")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	bag.Cart.ApplyCoupon(domain.Coupon{Code: req.Code, Amount: req.Amount, Percent: req.Percent})
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

// DELETE /api/v1/cart/coupon
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	bag.Cart.RemoveCoupon()
	respondJSON(w, http.StatusOK, cartResponse(bag.Cart))
}

func lineKeyFromPath(w http.ResponseWriter, r *http.Request) (domain.LineKey, bool) {
	key := domain.LineKey{
		ProductID: chi.URLParam(r, "product_id"),
		Size:      chi.URLParam(r, "size"),
	}
	if key.ProductID == "" || key.Size == "" {
		respondError(w, http.StatusBadRequest, "invalid_line", "product_id and size are required")
		return key, false
	}
	return key, true
}
