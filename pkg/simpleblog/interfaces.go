package simpleblog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the persistence boundary for articles and categories.
//
// Lookups that miss return ErrArticleNotFound / ErrCategoryNotFound;
// implementations map backend-specific constraint violations onto
// ErrDuplicateSlug and ErrCategoryNotFound (dangling category reference).
type Repository interface {
	// Article operations
	CreateArticle(ctx context.Context, article *Article) error
	GetArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*Article, error)
	UpdateArticle(ctx context.Context, article *Article) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	ListArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)
	CountArticles(ctx context.Context, filter ArticleFilter) (int64, error)
	ListRelatedArticles(ctx context.Context, params RelatedArticlesParams) ([]*Article, error)

	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*Category, error)
	CountArticlesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// UploadImageRequest contains parameters for uploading an image binary.
// MaxBytes bounds a single upload; zero means the backend default applies.
type UploadImageRequest struct {
	Reader      io.Reader
	ContentType string
	Folder      string
	Alt         string
	MaxBytes    int64
}

// ImageStore defines the interface for hosted image storage backends.
type ImageStore interface {
	// Upload persists an image binary remotely and returns the resolved
	// record. Fails with an error wrapping ErrUploadFailed,
	// ErrImageTooLarge or ErrUnsupportedImageType.
	Upload(ctx context.Context, req UploadImageRequest) (*ImageRecord, error)

	// Delete removes a previously uploaded image by its public id. Fails
	// with an error wrapping ErrImageDeleteFailed.
	Delete(ctx context.Context, publicID string) error
}

// RenderCache invalidates cached page renders keyed by opaque strings.
// Invalidation is best-effort: the service logs failures and moves on.
type RenderCache interface {
	Invalidate(ctx context.Context, keys ...string) error
}
