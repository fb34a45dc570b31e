package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
	"github.com/contentkit/simple-blog/pkg/simpleblog/imagestore/memory"
	s3store "github.com/contentkit/simple-blog/pkg/simpleblog/imagestore/s3"
	repomemory "github.com/contentkit/simple-blog/pkg/simpleblog/repo/memory"
	repopg "github.com/contentkit/simple-blog/pkg/simpleblog/repo/postgres"
	rediscache "github.com/contentkit/simple-blog/pkg/simpleblog/rendercache/redis"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:             "8080",
		Environment:      "development",
		DatabaseType:     "memory",
		ImageStoreType:   "memory",
		BlogImageMaxMB:   5,
		BannerImageMaxMB: 1,
	}
}

// ServerConfig represents server configuration for the simple-blog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Image store configuration
	ImageStoreType string // "memory", "s3"
	S3             s3store.Config

	// Render cache configuration; empty means no cache invalidation
	RedisURL       string
	CacheKeyPrefix string

	// Admin API authentication; empty disables token checks
	JWTSecret string

	// Per-flow upload limits in megabytes
	BlogImageMaxMB   int64
	BannerImageMaxMB int64
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if c.ImageStoreType != "memory" && c.ImageStoreType != "s3" {
		return errors.New("image_store_type must be 'memory' or 's3'")
	}
	if c.ImageStoreType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using the s3 image store")
	}

	if c.BlogImageMaxMB <= 0 || c.BannerImageMaxMB <= 0 {
		return errors.New("upload limits must be positive")
	}

	return nil
}

// BuildService assembles a Service from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (simpleblog.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildImageStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build image store: %w", err)
	}

	options := []simpleblog.Option{
		simpleblog.WithRepository(repo),
		simpleblog.WithImageStore(store),
		simpleblog.WithImageLimits(c.BlogImageMaxMB<<20, c.BannerImageMaxMB<<20),
	}

	if c.RedisURL != "" {
		cache, err := rediscache.NewFromURL(c.RedisURL, c.CacheKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to build render cache: %w", err)
		}
		options = append(options, simpleblog.WithRenderCache(cache))
	}

	return simpleblog.New(options...)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (simpleblog.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repopg.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
}

func (c *ServerConfig) buildImageStore() (simpleblog.ImageStore, error) {
	switch c.ImageStoreType {
	case "memory":
		return memory.New(), nil
	case "s3":
		return s3store.New(c.S3)
	}
	return nil, fmt.Errorf("unsupported image store type: %s", c.ImageStoreType)
}
