package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"go.uber.org/zap"
)

// eventBuffer is how many signals a slow client may fall behind before
// it starts missing them. Signals carry no state, so a missed one only
// delays a badge refresh until the next.
const eventBuffer = 16

type EventsHandler struct {
	bus       *events.Bus
	log       *zap.Logger
	keepAlive time.Duration
}

func NewEventsHandler(bus *events.Bus, log *zap.Logger, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}
	return &EventsHandler{bus: bus, log: log, keepAlive: keepAlive}
}

// GET /api/v1/events
//
// Streams "updated" signals for the session's collections as server-sent events.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming unsupported")
		return
	}

	// the server write timeout would cut the stream
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	ch, cancel := h.bus.Subscribe(eventBuffer, events.ForSlots(
		storage.SessionSlot(sessionID, storage.CartSlot),
		storage.SessionSlot(sessionID, storage.TrialSlot),
		storage.SessionSlot(sessionID, storage.WishlistSlot),
	))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Warn("failed to encode event", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: updated\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
