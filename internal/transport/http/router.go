package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/domain"
	"github.com/phone-token-service/internal/transport/http/handler"
	appmiddleware "github.com/phone-token-service/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. Background work tied
// to the router stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.Verifier != nil {
		authMw = appmiddleware.Auth(deps.Verifier)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, on the endpoints that take phone numbers.
	phoneRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	go func() {
		<-ctx.Done()
		phoneRL.Stop()
	}()

	healthH := handler.NewHealthHandler(deps.StoreName)
	tokenH := handler.NewTokenHandler(deps.Registry)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			if cfg.RequestTimeout > 0 {
				r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
			}
			r.Use(authMw)

			r.With(phoneRL.Limit).Post("/tokens", tokenH.Resolve)
			r.With(phoneRL.Limit).Post("/tokens/exists", tokenH.Exists)
			r.Put("/external-ids/{id}", tokenH.LinkExternalID)
			r.Get("/external-ids/{id}", tokenH.ExternalID)

			r.With(appmiddleware.RequireRole(domain.RoleAdmin)).Get("/tokens/{token}/phone", tokenH.Phone)
		})
	})

	return r
}
