package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("DEFAULT_COUNTRY_CODE", "")
	t.Setenv("PREFIX_TOKENS", "")
	t.Setenv("PREFIX_PHONE_NUMBERS", "")
	t.Setenv("PREFIX_EXTERNAL_IDS", "")

	t.Setenv("TRUST_PROXY_HEADERS", "")

	cfg := Load()
	assert.Equal(t, BackendS3, cfg.StoreBackend)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, "US", cfg.Tokens.DefaultRegion)
	assert.Equal(t, "tokens/", cfg.Tokens.PrefixTokens)
	assert.Equal(t, "e164/", cfg.Tokens.PrefixPhones)
	assert.Equal(t, "alexa/", cfg.Tokens.PrefixExternalID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "DYNAMO")
	t.Setenv("TOKEN_HASH_HMAC", "s3cret")
	t.Setenv("S3_BOOTSTRAP", "true")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := Load()
	assert.Equal(t, BackendDynamo, cfg.StoreBackend)
	assert.Equal(t, "s3cret", cfg.Tokens.HashHMAC)
	assert.True(t, cfg.S3Bootstrap)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.MinIO.UseSSL)
}
