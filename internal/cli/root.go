// Package cli implements the phonetoken command line tool.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/phone-token-service/internal/application/phonetoken"
	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/infrastructure/kvstore"
	"github.com/phone-token-service/internal/pkg/logging"
	"github.com/spf13/cobra"
)

// Opener builds the registry a command runs against. backend overrides
// STORE_BACKEND when non-empty.
type Opener func(ctx context.Context, backend string) (phonetoken.Service, error)

// NewRootCmd returns the command tree. Tests pass their own Opener.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "phonetoken",
		Short: "Issue and look up phone number tokens",
		Long: `phonetoken talks directly to the token store configured in the
environment (or .env). Use it to seed test users, inspect a token or link
an external account id without going through the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("backend", "", "Store backend: s3, dynamo, minio or memory (default: STORE_BACKEND)")
	root.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for the whole command")

	root.AddCommand(
		newResolveCmd(open),
		newReverseCmd(open),
		newExistsCmd(open),
		newLinkCmd(open),
		newExternalCmd(open),
		newJWTCmd(),
	)
	return root
}

// Execute runs the tool against the configured store.
func Execute() error {
	_ = godotenv.Load()
	return NewRootCmd(openFromEnv).Execute()
}

func openFromEnv(ctx context.Context, backend string) (phonetoken.Service, error) {
	cfg := config.Load()
	if backend != "" {
		cfg.StoreBackend = backend
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, false)
	slog.SetDefault(logger)

	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return phonetoken.NewService(phonetoken.Config{
		Secret:           cfg.Tokens.HashHMAC,
		DefaultRegion:    cfg.Tokens.DefaultRegion,
		TokensPrefix:     cfg.Tokens.PrefixTokens,
		PhoneIndexPrefix: cfg.Tokens.PrefixPhones,
		ExternalIDPrefix: cfg.Tokens.PrefixExternalID,
	}, phonetoken.ServiceDeps{Store: store, Logger: logger})
}

// registry opens the store for cmd and returns a context bounded by --timeout.
// The caller must call cancel.
func registry(cmd *cobra.Command, open Opener) (phonetoken.Service, context.Context, context.CancelFunc, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	backend, _ := cmd.Flags().GetString("backend")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	svc, err := open(ctx, backend)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return svc, ctx, cancel, nil
}
