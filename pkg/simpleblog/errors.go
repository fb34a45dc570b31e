package simpleblog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrArticleNotFound indicates an article was not found by id or slug
	ErrArticleNotFound = errors.New("article not found")

	// ErrCategoryNotFound indicates a category was not found by id or slug
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryInUse indicates a category cannot be deleted because
	// articles still reference it
	ErrCategoryInUse = errors.New("category has dependent articles")

	// ErrDuplicateSlug indicates a slug collides with an existing entity
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrInvalidArticleStatus indicates an unknown article status value
	ErrInvalidArticleStatus = errors.New("invalid article status")

	// ErrUploadFailed indicates an image upload operation failed
	ErrUploadFailed = errors.New("image upload failed")

	// ErrImageDeleteFailed indicates an image delete operation failed.
	// Callers performing cleanup treat this as best-effort: logged, never
	// fatal to the enclosing workflow operation.
	ErrImageDeleteFailed = errors.New("image delete failed")

	// ErrImageTooLarge indicates an upload exceeded the per-call size limit
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrUnsupportedImageType indicates a content type outside the allowed set
	ErrUnsupportedImageType = errors.New("unsupported image content type")
)

// ValidationError carries field-level validation messages. It is returned
// before any side effect has occurred.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ArticleError represents an error related to article operations
type ArticleError struct {
	ArticleID uuid.UUID
	Op        string
	Err       error
}

func (e *ArticleError) Error() string {
	return fmt.Sprintf("article operation %s failed for article %s: %v", e.Op, e.ArticleID, e.Err)
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

// CategoryError represents an error related to category operations
type CategoryError struct {
	CategoryID uuid.UUID
	Op         string
	Err        error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("category operation %s failed for category %s: %v", e.Op, e.CategoryID, e.Err)
}

func (e *CategoryError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to image store operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("image store operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
