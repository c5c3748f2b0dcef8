package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phone-token-service/internal/application/phonetoken"
	"github.com/phone-token-service/internal/domain"
	pkgtoken "github.com/phone-token-service/internal/pkg/token"
	"github.com/phone-token-service/internal/pkg/validate"
)

// maxBody caps request bodies; every payload here is a single short field.
const maxBody = 4 << 10

// TokenHandler exposes the token registry.
type TokenHandler struct {
	svc phonetoken.Service
}

func NewTokenHandler(svc phonetoken.Service) *TokenHandler { return &TokenHandler{svc: svc} }

// Resolve handles POST /tokens.
func (h *TokenHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req domain.ResolveTokenRequest
	if !decode(w, r, &req) {
		return
	}
	tok, err := h.svc.ResolveToken(r.Context(), req.Phone)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Token: tok})
}

// Exists handles POST /tokens/exists.
func (h *TokenHandler) Exists(w http.ResponseWriter, r *http.Request) {
	var req domain.ResolveTokenRequest
	if !decode(w, r, &req) {
		return
	}
	exists, err := h.svc.TokenExistsForPhone(r.Context(), req.Phone)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExistsEnvelope{Exists: exists})
}

// Phone handles GET /tokens/{token}/phone.
func (h *TokenHandler) Phone(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")
	if !pkgtoken.Valid(tok) {
		writeError(w, http.StatusBadRequest, "malformed token")
		return
	}
	phone, err := h.svc.ReverseResolveToken(r.Context(), tok)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PhoneEnvelope{Phone: phone})
}

// LinkExternalID handles PUT /external-ids/{id}.
func (h *TokenHandler) LinkExternalID(w http.ResponseWriter, r *http.Request) {
	extID, ok := externalID(w, r)
	if !ok {
		return
	}
	var req domain.LinkExternalIDRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.LinkExternalID(r.Context(), req.Token, extID); err != nil {
		httpError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExternalID handles GET /external-ids/{id}.
func (h *TokenHandler) ExternalID(w http.ResponseWriter, r *http.Request) {
	extID, ok := externalID(w, r)
	if !ok {
		return
	}
	tok, err := h.svc.ResolveTokenFromExternalID(r.Context(), extID)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Token: tok})
}

func externalID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid external id")
		return "", false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}
