package awsconf

import (
	"context"
	"testing"

	"github.com/phone-token-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RegionFallback(t *testing.T) {
	cfg := &config.Config{AWSRegion: "eu-west-1", AWSAccessKeyID: "test", AWSSecretKey: "test"}

	awsCfg, err := Load(context.Background(), cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)

	awsCfg, err = Load(context.Background(), cfg, "us-east-2")
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", awsCfg.Region)
}

func TestLoad_StaticCredentials(t *testing.T) {
	cfg := &config.Config{AWSRegion: "us-east-1", AWSAccessKeyID: "AKIDTEST", AWSSecretKey: "secret"}
	awsCfg, err := Load(context.Background(), cfg, "")
	require.NoError(t, err)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDTEST", creds.AccessKeyID)
}

func TestEndpoint(t *testing.T) {
	assert.Nil(t, Endpoint(&config.Config{}))
	assert.Equal(t, "http://localhost:4566", *Endpoint(&config.Config{AWSEndpointURL: "http://localhost:4566"}))
}
