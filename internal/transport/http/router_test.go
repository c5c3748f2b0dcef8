package http

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phone-token-service/internal/application/phonetoken"
	"github.com/phone-token-service/internal/config"
	"github.com/phone-token-service/internal/domain"
	jwtinfra "github.com/phone-token-service/internal/infrastructure/jwt"
	"github.com/phone-token-service/internal/infrastructure/memory"
	"github.com/phone-token-service/internal/infrastructure/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))
	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes}), 0600))

	p, err := jwtinfra.NewProvider(&config.Config{JWTPrivateKeyPath: privPath, JWTPublicKeyPath: pubPath, JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}

type testServer struct {
	handler  http.Handler
	provider *jwtinfra.Provider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, &config.Config{AllowedOrigins: []string{"*"}, RequestTimeout: 5 * time.Second})
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	store := memory.NewStore()
	m := metrics.New()
	svc, err := phonetoken.NewService(phonetoken.Config{Secret: "unittestingsecret"}, phonetoken.ServiceDeps{Store: store, Observer: m})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	p := newProvider(t)
	h := NewRouter(ctx, cfg, &Deps{Registry: svc, StoreName: store.Name(), Verifier: p, Metrics: m})
	return &testServer{handler: h, provider: p}
}

func (s *testServer) do(t *testing.T, method, path, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	return s.doFrom(t, "192.0.2.1:4321", "", method, path, body, role)
}

// doFrom sends the request from remoteAddr, with xff as X-Forwarded-For when set.
func (s *testServer) doFrom(t *testing.T, remoteAddr, xff, method, path, body, role string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	if role != "" {
		tok, err := s.provider.Sign("alexa-skill", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestRouter_HealthIsPublic(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/v1/health-check/store", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "memory://")
}

func TestRouter_TokensRequireAuth(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodPost, "/v1/tokens", `{"phone":"212-555-1212"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_ResolveThenReverse(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/v1/tokens/exists", `{"phone":"212-555-1212"}`, domain.RoleService)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists":false}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, "/v1/tokens", `{"phone":"212-555-1212"}`, domain.RoleService)
	require.Equal(t, http.StatusOK, rr.Code)
	var tok struct{ Token string }
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&tok))
	assert.True(t, strings.HasPrefix(tok.Token, "UT"))

	rr = s.do(t, http.MethodGet, "/v1/tokens/"+tok.Token+"/phone", "", domain.RoleService)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/tokens/"+tok.Token+"/phone", "", domain.RoleAdmin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"phone":"+12125551212"}`, rr.Body.String())
}

func TestRouter_ExternalIDs(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/v1/external-ids/amzn1.ask.account.X", "", domain.RoleService)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":""}`, rr.Body.String())

	rr = s.do(t, http.MethodPut, "/v1/external-ids/amzn1.ask.account.X", `{"token":"UTabc"}`, domain.RoleService)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/external-ids/amzn1.ask.account.X", "", domain.RoleService)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":"UTabc"}`, rr.Body.String())
}

func TestRouter_MetricsCountsOperations(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/v1/tokens", `{"phone":"212-555-1212"}`, domain.RoleService)

	rr := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "phonetoken_registry_tokens_issued_total 1")
}

func countAccepted(t *testing.T, s *testServer, n int) int {
	t.Helper()
	accepted := 0
	for i := 0; i < n; i++ {
		rr := s.doFrom(t, "10.0.0.1:1234", fmt.Sprintf("203.0.113.%d", i), http.MethodPost, "/v1/tokens/exists", `{"phone":"212-555-1212"}`, domain.RoleService)
		if rr.Code == http.StatusOK {
			accepted++
		}
	}
	return accepted
}

func TestRouter_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, 10, countAccepted(t, s, 30))
}

func TestRouter_TrustedProxyHeadersKeyByForwardedAddress(t *testing.T) {
	s := newTestServerWithConfig(t, &config.Config{AllowedOrigins: []string{"*"}, TrustProxyHeaders: true})
	assert.Equal(t, 30, countAccepted(t, s, 30))
}
