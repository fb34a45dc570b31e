package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	s3store "github.com/contentkit/simple-blog/pkg/simpleblog/imagestore/s3"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	PORT        - Server port (default: "8080")
//	ENVIRONMENT - Runtime environment (default: "development")
//
//	DATABASE_URL - "memory" (default) or a postgres:// / postgresql://
//	               connection string
//
//	IMAGE_STORE_URL - "memory://" (default) or
//	                  "s3://bucket?region=...&endpoint=...&prefix=...&base_url=...&max_attempts=N"
//	S3_ACCESS_KEY_ID / S3_SECRET_ACCESS_KEY - S3 credentials (optional;
//	                  the default AWS chain applies when unset)
//
//	REDIS_URL        - redis:// URL for render-cache invalidation (optional)
//	CACHE_KEY_PREFIX - prefix for render-cache keys (optional)
//
//	JWT_SECRET - HMAC secret protecting the admin API (optional)
//
//	BLOG_IMAGE_MAX_MB / BANNER_IMAGE_MAX_MB - per-flow upload limits
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}
		if err := applyImageStoreEnv(prefix, c); err != nil {
			return err
		}

		if v, ok := lookupEnv(prefix, "REDIS_URL"); ok {
			c.RedisURL = v
		}
		if v, ok := lookupEnv(prefix, "CACHE_KEY_PREFIX"); ok {
			c.CacheKeyPrefix = v
		}
		if v, ok := lookupEnv(prefix, "JWT_SECRET"); ok {
			c.JWTSecret = v
		}

		if err := applyLimitEnv(prefix, "BLOG_IMAGE_MAX_MB", &c.BlogImageMaxMB); err != nil {
			return err
		}
		if err := applyLimitEnv(prefix, "BANNER_IMAGE_MAX_MB", &c.BannerImageMaxMB); err != nil {
			return err
		}

		return nil
	}
}

// applyDatabaseEnv applies database configuration from environment
func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")

	if !hasURL || dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}

	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}

	return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

// applyImageStoreEnv applies image store configuration from environment
func applyImageStoreEnv(prefix string, c *ServerConfig) error {
	storeURL, hasURL := lookupEnv(prefix, "IMAGE_STORE_URL")

	if !hasURL || storeURL == "" || storeURL == "memory" || storeURL == "memory://" {
		c.ImageStoreType = "memory"
		return nil
	}

	if strings.HasPrefix(storeURL, "s3://") {
		return applyS3Env(storeURL, prefix, c)
	}

	return fmt.Errorf("unsupported IMAGE_STORE_URL format: %s (use 'memory://' or 's3://...')", storeURL)
}

// applyS3Env configures the S3 image store from a URL of the form
// s3://bucket?region=us-east-1&endpoint=http://minio:9000&prefix=img&base_url=https://cdn.example.com&max_attempts=3
func applyS3Env(rawURL, prefix string, c *ServerConfig) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid IMAGE_STORE_URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("s3 bucket missing in IMAGE_STORE_URL")
	}

	cfg := s3store.Config{
		Bucket:        u.Host,
		Region:        u.Query().Get("region"),
		Endpoint:      u.Query().Get("endpoint"),
		KeyPrefix:     u.Query().Get("prefix"),
		PublicBaseURL: u.Query().Get("base_url"),
		UsePathStyle:  u.Query().Get("path_style") == "true",
	}

	if v := u.Query().Get("max_attempts"); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil || attempts < 1 {
			return fmt.Errorf("invalid max_attempts in IMAGE_STORE_URL: %s", v)
		}
		cfg.MaxAttempts = attempts
	}

	if v, ok := lookupEnv(prefix, "S3_ACCESS_KEY_ID"); ok {
		cfg.AccessKeyID = v
	}
	if v, ok := lookupEnv(prefix, "S3_SECRET_ACCESS_KEY"); ok {
		cfg.SecretAccessKey = v
	}

	c.ImageStoreType = "s3"
	c.S3 = cfg
	return nil
}

// lookupEnv checks the prefixed variable first, then the bare name.
func lookupEnv(prefix, name string) (string, bool) {
	if prefix != "" {
		if v, ok := os.LookupEnv(prefix + name); ok {
			return v, true
		}
	}
	return os.LookupEnv(name)
}

func applyLimitEnv(prefix, name string, target *int64) error {
	v, ok := lookupEnv(prefix, name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s: %s", name, v)
	}
	*target = n
	return nil
}
