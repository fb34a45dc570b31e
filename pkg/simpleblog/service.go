package simpleblog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-blog library. It covers
// the publishing workflow (admin-facing mutations over articles and
// categories) and the read API (public, published-only queries plus
// dashboard statistics).
type Service interface {
	// Publishing workflow: articles
	CreateArticle(ctx context.Context, req CreateArticleRequest) (*Article, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	UpdateArticle(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*Article, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error
	PublishArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	UnpublishArticle(ctx context.Context, id uuid.UUID) (*Article, error)
	ListArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// Publishing workflow: categories
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*Category, error)

	// Read API: public, published-only
	GetPublishedArticleBySlug(ctx context.Context, slug string) (*Article, error)
	ListPublishedArticles(ctx context.Context, req PublicListRequest) ([]*Article, error)
	ListRelatedArticles(ctx context.Context, articleID uuid.UUID, limit int) ([]*Article, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)

	// Read API: dashboard
	GetDashboardStatistics(ctx context.Context) (*ArticleStatistics, error)
}
