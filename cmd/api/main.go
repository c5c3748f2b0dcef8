package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/phone-token-service/internal/application/phonetoken"
	"github.com/phone-token-service/internal/config"
	jwtinfra "github.com/phone-token-service/internal/infrastructure/jwt"
	"github.com/phone-token-service/internal/infrastructure/kvstore"
	"github.com/phone-token-service/internal/infrastructure/metrics"
	"github.com/phone-token-service/internal/infrastructure/sns"
	"github.com/phone-token-service/internal/pkg/logging"
	transporthttp "github.com/phone-token-service/internal/transport/http"
	appmiddleware "github.com/phone-token-service/internal/transport/http/middleware"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(logger)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(cfg, logger); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// Issuance events (optional).
	var notifier phonetoken.Notifier
	if p, err := sns.NewPublisher(ctx, cfg); err == nil {
		notifier = p
	} else {
		slog.Warn("token issued events disabled", "err", err)
	}

	m := metrics.New()
	svc, err := phonetoken.NewService(phonetoken.Config{
		Secret:           cfg.Tokens.HashHMAC,
		DefaultRegion:    cfg.Tokens.DefaultRegion,
		TokensPrefix:     cfg.Tokens.PrefixTokens,
		PhoneIndexPrefix: cfg.Tokens.PrefixPhones,
		ExternalIDPrefix: cfg.Tokens.PrefixExternalID,
	}, phonetoken.ServiceDeps{
		Store:    store,
		Notifier: notifier,
		Observer: m,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("token registry: %w", err)
	}

	// JWT verification (optional outside production).
	var verifier appmiddleware.TokenVerifier
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		verifier = p
	} else if cfg.IsProduction() {
		return fmt.Errorf("jwt provider: %w", err)
	} else {
		slog.Warn("JWT provider not available, API is unauthenticated", "err", err)
	}

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		Registry:  svc,
		StoreName: store.Name(),
		Verifier:  verifier,
		Metrics:   m,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", store.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
