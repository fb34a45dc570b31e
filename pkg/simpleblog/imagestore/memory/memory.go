package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// DefaultMaxBytes applies when an upload request carries no limit.
const DefaultMaxBytes = 5 << 20

var defaultAllowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

// Store is an in-memory implementation of the simpleblog.ImageStore
// interface, intended for tests and development.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

// New creates a new in-memory image store
func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Upload stores an image binary in memory and returns its record. The
// public id doubles as the object key.
func (s *Store) Upload(ctx context.Context, req simpleblog.UploadImageRequest) (*simpleblog.ImageRecord, error) {
	if !defaultAllowedTypes[req.ContentType] {
		return nil, fmt.Errorf("%w: %s", simpleblog.ErrUnsupportedImageType, req.ContentType)
	}

	maxBytes := req.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(req.Reader, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", simpleblog.ErrUploadFailed, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", simpleblog.ErrImageTooLarge, maxBytes)
	}

	publicID := req.Folder + "/" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[publicID] = data
	s.types[publicID] = req.ContentType

	return &simpleblog.ImageRecord{
		PublicID: publicID,
		URL:      "memory://" + publicID,
		Alt:      req.Alt,
	}, nil
}

// Delete removes an image by public id.
func (s *Store) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.objects[publicID]; !exists {
		return fmt.Errorf("%w: unknown public id %s", simpleblog.ErrImageDeleteFailed, publicID)
	}

	delete(s.objects, publicID)
	delete(s.types, publicID)
	return nil
}

// Len reports how many images the store currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether an image with the given public id exists.
func (s *Store) Has(publicID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.objects[publicID]
	return exists
}
