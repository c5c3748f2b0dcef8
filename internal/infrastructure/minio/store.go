// Package minioinfra stores index records in a self-hosted S3-compatible
// bucket through minio-go.
package minioinfra

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/domain"
)

type Store struct {
	client *minio.Client
	bucket string
}

// NewStore creates a MinIO client for cfg and binds it to cfg.Bucket.
func NewStore(cfg config.MinIO) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *Store) Name() string { return "minio://" + s.bucket }

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *Store) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError("get object", err)
	}
	defer obj.Close()
	// GetObject is lazy; a missing key surfaces on first read.
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError("read object", err)
	}
	return body, nil
}

func (s *Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func mapError(op string, err error) error {
	if isNoSuchKey(err) {
		return fmt.Errorf("minio %s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("minio %s: %w", op, err)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
