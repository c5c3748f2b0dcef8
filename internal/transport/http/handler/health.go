package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	store string
}

// NewHealthHandler reports store as the backend name on /health-check/store.
func NewHealthHandler(store string) *HealthHandler { return &HealthHandler{store: store} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "store":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: h.store})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
