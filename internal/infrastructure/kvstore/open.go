// Package kvstore opens the key-value backend named by STORE_BACKEND.
package kvstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phone-token-service/internal/application/phonetoken"
	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/infrastructure/dynamo"
	"github.com/phone-token-service/internal/infrastructure/memory"
	minioinfra "github.com/phone-token-service/internal/infrastructure/minio"
	s3infra "github.com/phone-token-service/internal/infrastructure/s3"
)

// Open builds the configured store, creating its bucket or table when the
// backend supports it and bootstrap is wanted.
func Open(ctx context.Context, cfg *config.Config) (phonetoken.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendS3, "":
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME is required for the s3 backend")
		}
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := s3infra.NewStore(client, cfg.S3BucketName, cfg.AWSRegion)
		if cfg.S3Bootstrap {
			if err := store.Bootstrap(ctx); err != nil {
				return nil, err
			}
		}
		return store, nil

	case config.BackendDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return openDynamo(ctx, client, cfg.DynamoTable)

	case config.BackendMinIO:
		store, err := minioinfra.NewStore(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucketExists(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.BackendMemory:
		if cfg.IsProduction() {
			return nil, fmt.Errorf("memory backend is not allowed in production")
		}
		slog.Warn("using in-memory store; tokens will not survive a restart")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// openDynamo creates the table when missing. An existing table is fine; any
// other failure (credentials, endpoint) stops startup.
func openDynamo(ctx context.Context, client dynamo.API, table string) (phonetoken.Store, error) {
	if err := dynamo.Bootstrap(ctx, client, table); err != nil {
		return nil, fmt.Errorf("bootstrap dynamodb table %s: %w", table, err)
	}
	return dynamo.NewStore(client, table), nil
}
