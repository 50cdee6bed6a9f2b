package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/summary"
	"github.com/fjod/go_cart/storefront/internal/trial"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TrialHandler struct {
	sessions *session.Registry
	products catalog.Catalog
	fees     summary.FeeSchedule
	log      *zap.Logger
	timeout  time.Duration
}

func NewTrialHandler(sessions *session.Registry, products catalog.Catalog, fees summary.FeeSchedule, log *zap.Logger, timeout time.Duration) *TrialHandler {
	return &TrialHandler{
		sessions: sessions,
		products: products,
		fees:     fees,
		log:      log,
		timeout:  timeout,
	}
}

type AddTrialItemRequestDTO struct {
	Slug string `json:"slug"`
	Size string `json:"size"`
}

type TrialResponseDTO struct {
	Items     []domain.HomeTrialItem `json:"items"`
	ItemCount int                    `json:"item_count"`
	Phase     trial.Phase            `json:"phase"`
	Guidance  string                 `json:"guidance,omitempty"`
	Valid     bool                   `json:"valid"`
	MinItems  int                    `json:"min_items"`
	MaxItems  int                    `json:"max_items"`
}

func trialResponse(s *trial.Store) TrialResponseDTO {
	items := s.Items()
	if items == nil {
		items = []domain.HomeTrialItem{}
	}
	n := len(items)
	return TrialResponseDTO{
		Items:     items,
		ItemCount: n,
		Phase:     trial.PhaseOf(n),
		Guidance:  trial.GuidanceFor(n),
		Valid:     trial.ValidCount(n),
		MinItems:  trial.MinItems,
		MaxItems:  trial.MaxItems,
	}
}

// GET /api/v1/trial
func (h *TrialHandler) GetTrial(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, trialResponse(bag.Trial))
}

// POST /api/v1/trial/items
func (h *TrialHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddTrialItemRequestDTO
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
	if req.Size == "" || !product.HasSize(req.Size) {
		respondError(w, http.StatusBadRequest, "invalid_size", "Please select a size")
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	outcome := bag.Trial.Add(ctx, product, req.Size)

	h.log.Debug("trial add",
		zap.String("request_id", getRequestID(r.Context())),
		zap.String("session", sessionID),
		zap.String("slug", req.Slug),
		zap.Stringer("outcome", outcome))

	switch outcome {
	case trial.Full:
		respondError(w, http.StatusConflict, "trial_full", "Maximum 10 items allowed for Home Trial")
	case trial.Duplicate:
		respondError(w, http.StatusConflict, "already_exists", "Item already in Home Trial")
	default:
		respondJSON(w, http.StatusCreated, trialResponse(bag.Trial))
	}
}

// DELETE /api/v1/trial/items/{product_id}/{size}
func (h *TrialHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	productID, size := chi.URLParam(r, "product_id"), chi.URLParam(r, "size")
	if productID == "" || size == "" {
		respondError(w, http.StatusBadRequest, "invalid_line", "product_id and size are required")
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	bag.Trial.Remove(ctx, productID, size)
	respondJSON(w, http.StatusOK, trialResponse(bag.Trial))
}

// GET /api/v1/trial/fees
func (h *TrialHandler) GetFees(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, summary.TrialFees(h.fees.ServiceFee, h.fees.DepositPerItem, bag.Trial.ItemCount()))
}

// GET /api/v1/trial/address-gate
//
// The address step is only reachable with a valid bag.
func (h *TrialHandler) AddressGate(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	if _, ok := readyItems(w, bag.Trial); !ok {
		return
	}
	respondJSON(w, http.StatusOK, trialResponse(bag.Trial))
}

// readyItems returns the bag's items, or writes 409 with guidance when the
// bag is outside the allowed size.
func readyItems(w http.ResponseWriter, s *trial.Store) ([]domain.HomeTrialItem, bool) {
	items := s.Items()
	if n := len(items); !trial.ValidCount(n) {
		respondErrorDetails(w, http.StatusConflict, "trial_not_ready",
			fmt.Sprintf("home trial needs between %d and %d items", trial.MinItems, trial.MaxItems),
			trial.GuidanceFor(n))
		return nil, false
	}
	return items, true
}

// GET /api/v1/trial/billing
func (h *TrialHandler) GetBilling(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	items, ok := readyItems(w, bag.Trial)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.billing(items))
}

// POST /api/v1/trial/billing/complete
//
// Settles a valid trial and empties the bag.
func (h *TrialHandler) CompleteBilling(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(ctx, sessionID)
	items, ok := readyItems(w, bag.Trial)
	if !ok {
		return
	}
	bill := h.billing(items)
	bag.Trial.Clear(ctx)

	h.log.Info("home trial settled",
		zap.String("request_id", getRequestID(r.Context())),
		zap.String("session", sessionID),
		zap.Int64("total_due", int64(bill.TotalDue)))

	respondJSON(w, http.StatusOK, bill)
}

func (h *TrialHandler) billing(items []domain.HomeTrialItem) summary.BillingBreakdown {
	kept := summary.KeptItemPrice(items, h.fees.KeptItemFallback)
	return summary.Billing(h.fees.ServiceFee, kept, h.fees.SecurityDeposit)
}
