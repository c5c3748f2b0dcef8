package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phone-token-service/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// TokenEnvelope wraps responses carrying a token. Token is always present,
// empty when an external id is not linked.
type TokenEnvelope struct {
	Token string `json:"token"`
}

// PhoneEnvelope wraps reverse lookups.
type PhoneEnvelope struct {
	Phone string `json:"phone"`
}

// ExistsEnvelope wraps existence probes.
type ExistsEnvelope struct {
	Exists bool `json:"exists"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain errors to status codes. Store failures are reported
// generically; their detail only goes to the log.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	var se *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, "invalid phone number")
	case errors.Is(err, domain.ErrUnknownToken):
		writeError(w, http.StatusNotFound, "unknown token")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad request")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &se):
		slog.ErrorContext(r.Context(), "store unavailable", "err", err)
		writeError(w, http.StatusBadGateway, "token store unavailable")
	default:
		slog.ErrorContext(r.Context(), "request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
