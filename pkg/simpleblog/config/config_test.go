package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3store "github.com/contentkit/simple-blog/pkg/simpleblog/imagestore/s3"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.ImageStoreType)
	assert.Equal(t, int64(5), cfg.BlogImageMaxMB)
	assert.Equal(t, int64(1), cfg.BannerImageMaxMB)
}

func TestLoadAppliesOptionsInOrder(t *testing.T) {
	cfg, err := Load(
		func(c *ServerConfig) error { c.Port = "9000"; return nil },
		func(c *ServerConfig) error { c.Port = "9001"; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "9001", cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "missing port",
			mutate:  func(c *ServerConfig) { c.Port = "" },
			wantErr: "port is required",
		},
		{
			name:    "unknown database type",
			mutate:  func(c *ServerConfig) { c.DatabaseType = "sqlite" },
			wantErr: "database_type",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *ServerConfig) { c.DatabaseType = "postgres" },
			wantErr: "database_url is required",
		},
		{
			name:    "unknown image store type",
			mutate:  func(c *ServerConfig) { c.ImageStoreType = "gcs" },
			wantErr: "image_store_type",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *ServerConfig) { c.ImageStoreType = "s3" },
			wantErr: "s3 bucket is required",
		},
		{
			name:    "nonpositive upload limit",
			mutate:  func(c *ServerConfig) { c.BlogImageMaxMB = 0 },
			wantErr: "upload limits must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAcceptsS3Config(t *testing.T) {
	cfg := defaults()
	cfg.ImageStoreType = "s3"
	cfg.S3 = s3store.Config{Bucket: "images", Region: "us-east-1"}

	assert.NoError(t, cfg.Validate())
}

func TestBuildServiceMemory(t *testing.T) {
	cfg := defaults()

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
