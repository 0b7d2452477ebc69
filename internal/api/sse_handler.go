package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"award-registration/internal/utils"

	"github.com/go-chi/chi/v5"
)

// ConfirmationEvents streams the verified confirmation for one intent. The
// stream ends after the first confirmation or when the client goes away.
func (h *Handler) ConfirmationEvents(w http.ResponseWriter, r *http.Request) {
	intentID := chi.URLParam(r, "intentId")
	if intentID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Intent id is required.")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	setupSSEHeaders(w)

	ctx := r.Context()
	events := h.Emitter.Subscribe(ctx, intentID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"intentId\":%q}\n\n", intentID)
	flusher.Flush()
	h.Logger.Debug("SSE", fmt.Sprintf("Client waiting on confirmation for %s", intentID))

	for {
		select {
		case c, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(c)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize confirmation: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: confirmed\ndata: %s\n\n", data)
			flusher.Flush()
			h.Logger.Info("SSE", fmt.Sprintf("Confirmation pushed for %s", intentID))
			return
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client left before confirmation for %s", intentID))
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Accel-Buffering", "no")
}
