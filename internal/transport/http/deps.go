package http

import (
	"net/http"

	"github.com/phone-token-service/internal/application/phonetoken"
	appmiddleware "github.com/phone-token-service/internal/transport/http/middleware"
)

// MetricsExporter serves the metrics scrape endpoint.
type MetricsExporter interface {
	Handler() http.Handler
}

// Deps holds everything the router wires into handlers.
type Deps struct {
	Registry phonetoken.Service
	// StoreName is reported by /health-check/store.
	StoreName string
	// Verifier is optional; without it the API runs unauthenticated and
	// admin-only routes answer 401.
	Verifier appmiddleware.TokenVerifier
	// Metrics is optional; without it /metrics is not mounted.
	Metrics MetricsExporter
}
