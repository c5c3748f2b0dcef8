package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Token registry errors.
var (
	// ErrInvalidPhone means the raw phone text could not be normalized.
	ErrInvalidPhone = fmt.Errorf("invalid phone number: %w", ErrBadRequest)
	// ErrUnknownToken means a reverse lookup was asked for a token that was never issued.
	ErrUnknownToken = fmt.Errorf("unknown token: %w", ErrNotFound)

	ErrMissingSecret = errors.New("token hash secret is required")
	ErrMissingStore  = errors.New("key-value store is required")
)

// StoreError reports a failed read or write against the backing store.
// Key is already masked by the caller when it would reveal a phone number.
type StoreError struct {
	Op    string // "get" | "put"
	Store string // e.g. "s3://bucket"
	Key   string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s/%s: %v", e.Op, e.Store, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
