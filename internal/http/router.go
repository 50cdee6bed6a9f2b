package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/summary"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// StorageHealth reports the circuit state in front of a remote store.
type StorageHealth interface {
	State() gobreaker.State
}

type RouterConfig struct {
	Sessions           *session.Registry
	Catalog            catalog.Catalog
	Bus                *events.Bus
	Fees               summary.FeeSchedule
	Log                *zap.Logger
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	KeepAlive          time.Duration
	// Storage is nil for the in-memory backend.
	Storage StorageHealth
}

func NewRouter(cfg RouterConfig) http.Handler {
	cartHandler := NewCartHandler(cfg.Sessions, cfg.Catalog, cfg.Log, cfg.RequestTimeout)
	trialHandler := NewTrialHandler(cfg.Sessions, cfg.Catalog, cfg.Fees, cfg.Log, cfg.RequestTimeout)
	wishlistHandler := NewWishlistHandler(cfg.Sessions, cfg.Catalog, cfg.RequestTimeout)
	summaryHandler := NewSummaryHandler(cfg.Sessions)
	eventsHandler := NewEventsHandler(cfg.Bus, cfg.Log, cfg.KeepAlive)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(SessionMiddleware)

	r.Get("/health", health(cfg.Storage))

	r.Route("/api/v1", func(r chi.Router) {
		// long-lived, so no timeout or compression
		r.Get("/events", eventsHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
			r.Use(middleware.Compress(5))
			r.Use(MaxBodyMiddleware(cfg.MaxRequestBodySize))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}/{size}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}/{size}", cartHandler.RemoveItem)
				r.Post("/items/{product_id}/{size}/wishlist", cartHandler.MoveToWishlist)
				r.Put("/coupon", cartHandler.ApplyCoupon)
				r.Delete("/coupon", cartHandler.RemoveCoupon)
			})

			r.Route("/trial", func(r chi.Router) {
				r.Get("/", trialHandler.GetTrial)
				r.Post("/items", trialHandler.AddItem)
				r.Delete("/items/{product_id}/{size}", trialHandler.RemoveItem)
				r.Get("/fees", trialHandler.GetFees)
				r.Get("/address-gate", trialHandler.AddressGate)
				r.Get("/billing", trialHandler.GetBilling)
				r.Post("/billing/complete", trialHandler.CompleteBilling)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.GetWishlist)
				r.Post("/toggle", wishlistHandler.Toggle)
			})

			r.Get("/summary", summaryHandler.GetSummary)
		})
	})

	return r
}

func health(st StorageHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}

		state := st.State()
		status, code := "ok", http.StatusOK
		if state == gobreaker.StateOpen {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		respondJSON(w, code, map[string]string{"status": status, "storage": state.String()})
	}
}
