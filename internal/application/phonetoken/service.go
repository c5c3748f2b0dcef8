package phonetoken

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phone-token-service/internal/domain"
	"github.com/phone-token-service/internal/pkg/phone"
	pkgtoken "github.com/phone-token-service/internal/pkg/token"
)

// Default key prefixes for the three indices.
const (
	DefaultTokensPrefix     = "tokens/"
	DefaultPhoneIndexPrefix = "e164/"
	DefaultExternalIDPrefix = "alexa/"
)

// Outcomes reported to an Observer.
const (
	OutcomeOK       = "ok"
	OutcomeIssued   = "issued"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Service issues and resolves phone tokens.
type Service interface {
	// ResolveToken returns the token for rawPhone, creating and persisting it
	// on first use.
	ResolveToken(ctx context.Context, rawPhone string) (string, error)
	// ReverseResolveToken returns the E.164 phone for an issued token, or an
	// error wrapping domain.ErrUnknownToken.
	ReverseResolveToken(ctx context.Context, token string) (string, error)
	// TokenExistsForPhone reports whether rawPhone has been resolved before.
	// It never writes.
	TokenExistsForPhone(ctx context.Context, rawPhone string) (bool, error)
	LinkExternalID(ctx context.Context, token, externalID string) error
	// ResolveTokenFromExternalID returns "" when externalID was never linked.
	ResolveTokenFromExternalID(ctx context.Context, externalID string) (string, error)
	Normalize(rawPhone string) (string, error)
}

// Store is the key-value backend holding the index records.
// Get must wrap domain.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
	Name() string
}

// Notifier is told about every newly issued token.
type Notifier interface {
	TokenIssued(ctx context.Context, token, e164 string) error
}

// Observer records the outcome of each operation.
type Observer interface {
	Observe(op, outcome string)
}

// Config holds the registry settings. Secret is required; empty fields fall
// back to the defaults.
type Config struct {
	Secret           string
	DefaultRegion    string
	TokensPrefix     string
	PhoneIndexPrefix string
	ExternalIDPrefix string
}

type ServiceDeps struct {
	Store    Store
	Notifier Notifier
	Observer Observer
	Logger   *slog.Logger
}

type service struct {
	store    Store
	notifier Notifier
	observer Observer
	log      *slog.Logger

	secret           []byte
	region           string
	tokensPrefix     string
	phoneIndexPrefix string
	externalIDPrefix string
}

func NewService(cfg Config, deps ServiceDeps) (Service, error) {
	if cfg.Secret == "" {
		return nil, domain.ErrMissingSecret
	}
	if deps.Store == nil {
		return nil, domain.ErrMissingStore
	}
	s := &service{
		store:            deps.Store,
		notifier:         deps.Notifier,
		observer:         deps.Observer,
		log:              deps.Logger,
		secret:           []byte(cfg.Secret),
		region:           cfg.DefaultRegion,
		tokensPrefix:     withSlash(cfg.TokensPrefix, DefaultTokensPrefix),
		phoneIndexPrefix: withSlash(cfg.PhoneIndexPrefix, DefaultPhoneIndexPrefix),
		externalIDPrefix: withSlash(cfg.ExternalIDPrefix, DefaultExternalIDPrefix),
	}
	if s.region == "" {
		s.region = phone.DefaultRegion
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s, nil
}

func (s *service) Normalize(rawPhone string) (string, error) {
	return phone.Normalize(rawPhone, s.region)
}

func (s *service) ResolveToken(ctx context.Context, rawPhone string) (string, error) {
	const op = "resolve_token"
	e164, err := s.Normalize(rawPhone)
	if err != nil {
		s.observe(op, OutcomeInvalid)
		return "", err
	}

	tok, err := s.lookupPhone(ctx, e164)
	if err == nil {
		s.log.DebugContext(ctx, "retrieved existing token for phone")
		s.observe(op, OutcomeOK)
		return tok, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.observe(op, OutcomeError)
		return "", err
	}

	// Token index first: anyone who can see the phone record can trust the
	// token record behind it.
	tok = pkgtoken.Derive(s.secret, e164)
	if err := s.put(ctx, s.tokenKey(tok), s.tokenKey(tok), []byte(e164)); err != nil {
		s.observe(op, OutcomeError)
		return "", err
	}
	if err := s.put(ctx, s.phoneKey(e164), s.maskedPhoneKey(), []byte(tok)); err != nil {
		s.observe(op, OutcomeError)
		return "", err
	}
	s.log.InfoContext(ctx, "issued token", "store", s.store.Name(), "key", s.tokenKey(tok))
	s.observe(op, OutcomeIssued)

	if s.notifier != nil {
		if err := s.notifier.TokenIssued(ctx, tok, e164); err != nil {
			s.log.WarnContext(ctx, "could not publish token issued event", "key", s.tokenKey(tok), "err", err)
		}
	}
	return tok, nil
}

func (s *service) ReverseResolveToken(ctx context.Context, token string) (string, error) {
	const op = "reverse_resolve_token"
	key := s.tokenKey(token)
	body, err := s.get(ctx, key, key)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.ErrorContext(ctx, "tried looking up phone for a non-existent token", "store", s.store.Name(), "key", key)
		s.observe(op, OutcomeNotFound)
		return "", fmt.Errorf("%s: %w", key, domain.ErrUnknownToken)
	}
	if err != nil {
		s.observe(op, OutcomeError)
		return "", err
	}
	s.observe(op, OutcomeOK)
	return string(body), nil
}

func (s *service) TokenExistsForPhone(ctx context.Context, rawPhone string) (bool, error) {
	const op = "token_exists_for_phone"
	e164, err := s.Normalize(rawPhone)
	if err != nil {
		s.observe(op, OutcomeInvalid)
		return false, err
	}
	_, err = s.lookupPhone(ctx, e164)
	switch {
	case err == nil:
		s.observe(op, OutcomeOK)
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		s.observe(op, OutcomeNotFound)
		return false, nil
	default:
		s.observe(op, OutcomeError)
		return false, err
	}
}

func (s *service) LinkExternalID(ctx context.Context, token, externalID string) error {
	const op = "link_external_id"
	key := s.externalIDKey(externalID)
	if err := s.put(ctx, key, key, []byte(token)); err != nil {
		s.observe(op, OutcomeError)
		return err
	}
	s.observe(op, OutcomeOK)
	return nil
}

func (s *service) ResolveTokenFromExternalID(ctx context.Context, externalID string) (string, error) {
	const op = "resolve_token_from_external_id"
	key := s.externalIDKey(externalID)
	body, err := s.get(ctx, key, key)
	if errors.Is(err, domain.ErrNotFound) {
		s.observe(op, OutcomeNotFound)
		return "", nil
	}
	if err != nil {
		s.observe(op, OutcomeError)
		return "", err
	}
	s.observe(op, OutcomeOK)
	return string(body), nil
}

func (s *service) lookupPhone(ctx context.Context, e164 string) (string, error) {
	body, err := s.get(ctx, s.phoneKey(e164), s.maskedPhoneKey())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// get reads key and wraps failures other than not-found in a StoreError
// labelled with logKey.
func (s *service) get(ctx context.Context, key, logKey string) ([]byte, error) {
	body, err := s.store.Get(ctx, key)
	if err == nil {
		return body, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	s.log.ErrorContext(ctx, "store read failed", "store", s.store.Name(), "key", logKey, "err", err)
	return nil, &domain.StoreError{Op: "get", Store: s.store.Name(), Key: logKey, Err: err}
}

func (s *service) put(ctx context.Context, key, logKey string, body []byte) error {
	if err := s.store.Put(ctx, key, body); err != nil {
		s.log.ErrorContext(ctx, "store write failed", "store", s.store.Name(), "key", logKey, "err", err)
		return &domain.StoreError{Op: "put", Store: s.store.Name(), Key: logKey, Err: err}
	}
	s.log.DebugContext(ctx, "stored index record", "store", s.store.Name(), "key", logKey, "bytes", len(body))
	return nil
}

func (s *service) tokenKey(token string) string { return s.tokensPrefix + token }

func (s *service) externalIDKey(id string) string { return s.externalIDPrefix + id }

// phoneKey escapes '+', which is unsafe in the backing store's key space.
func (s *service) phoneKey(e164 string) string {
	return s.phoneIndexPrefix + strings.ReplaceAll(e164, "+", "P")
}

func (s *service) maskedPhoneKey() string { return s.phoneIndexPrefix + "(masked)" }

func (s *service) observe(op, outcome string) {
	if s.observer != nil {
		s.observer.Observe(op, outcome)
	}
}

func withSlash(prefix, fallback string) string {
	if prefix == "" {
		prefix = fallback
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
