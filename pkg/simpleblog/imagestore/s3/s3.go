package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// Config options for the S3 image store
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	KeyPrefix       string // Optional key prefix inside the bucket
	PublicBaseURL   string // Base URL for serving uploaded images (CDN or website origin)

	// MaxAttempts controls SDK retries per call. Default 1: no silent
	// retry policy; callers opt in explicitly.
	MaxAttempts int

	// ContentTypes restricts accepted uploads. Empty means the default
	// raster set (jpeg, png, gif, webp, avif).
	ContentTypes []string

	// DefaultMaxBytes applies when an upload request carries no limit.
	DefaultMaxBytes int64
}

var defaultContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/avif"}

// Store is an S3-compatible implementation of the simpleblog.ImageStore
// interface.
type Store struct {
	client          *s3.Client
	uploader        *manager.Uploader
	bucket          string
	keyPrefix       string
	publicBaseURL   string
	allowedTypes    map[string]bool
	defaultMaxBytes int64
}

// New creates a new S3-compatible image store
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.DefaultMaxBytes <= 0 {
		cfg.DefaultMaxBytes = 5 << 20
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	types := cfg.ContentTypes
	if len(types) == 0 {
		types = defaultContentTypes
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	return &Store{
		client:          client,
		uploader:        manager.NewUploader(client),
		bucket:          cfg.Bucket,
		keyPrefix:       strings.Trim(cfg.KeyPrefix, "/"),
		publicBaseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		allowedTypes:    allowed,
		defaultMaxBytes: cfg.DefaultMaxBytes,
	}, nil
}

// Upload streams an image into the bucket and returns its record. The
// object key (bucket-relative) doubles as the public id.
func (s *Store) Upload(ctx context.Context, req simpleblog.UploadImageRequest) (*simpleblog.ImageRecord, error) {
	if !s.allowedTypes[req.ContentType] {
		return nil, fmt.Errorf("%w: %s", simpleblog.ErrUnsupportedImageType, req.ContentType)
	}

	maxBytes := req.MaxBytes
	if maxBytes <= 0 {
		maxBytes = s.defaultMaxBytes
	}

	// Buffer through a limit check so an oversized body is rejected
	// before anything lands in the bucket.
	data, err := io.ReadAll(io.LimitReader(req.Reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", simpleblog.ErrUploadFailed, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", simpleblog.ErrImageTooLarge, maxBytes)
	}

	key := s.objectKey(req.Folder, req.ContentType)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(req.ContentType),
	})
	if err != nil {
		return nil, &simpleblog.StorageError{
			Backend: "s3",
			Key:     key,
			Op:      "upload",
			Err:     fmt.Errorf("%w: %v", simpleblog.ErrUploadFailed, err),
		}
	}

	return &simpleblog.ImageRecord{
		PublicID: key,
		URL:      s.publicURL(key),
		Alt:      req.Alt,
	}, nil
}

// Delete removes an image object by its public id.
func (s *Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return &simpleblog.StorageError{
			Backend: "s3",
			Key:     publicID,
			Op:      "delete",
			Err:     fmt.Errorf("%w: %v", simpleblog.ErrImageDeleteFailed, err),
		}
	}
	return nil
}

func (s *Store) objectKey(folder, contentType string) string {
	parts := make([]string, 0, 3)
	if s.keyPrefix != "" {
		parts = append(parts, s.keyPrefix)
	}
	if folder != "" {
		parts = append(parts, strings.Trim(folder, "/"))
	}
	parts = append(parts, uuid.NewString()+extensionFor(contentType))
	return strings.Join(parts, "/")
}

func (s *Store) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/avif":
		return ".avif"
	}
	return ""
}
