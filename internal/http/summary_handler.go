package http

import (
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/summary"
)

type SummaryHandler struct {
	sessions *session.Registry
}

func NewSummaryHandler(sessions *session.Registry) *SummaryHandler {
	return &SummaryHandler{sessions: sessions}
}

// GET /api/v1/summary
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	bag := h.sessions.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, summary.Compute(summary.Input{
		Lines:          bag.Cart.Items(),
		TrialItemCount: bag.Trial.ItemCount(),
		Coupon:         bag.Cart.Coupon(),
		Policy:         bag.Cart.Policy(),
	}))
}
