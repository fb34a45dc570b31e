package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// Repository implements simpleblog.Repository using in-memory storage.
// Safe for concurrent use; intended for tests and development.
type Repository struct {
	mu            sync.RWMutex
	articles      map[uuid.UUID]*simpleblog.Article
	categories    map[uuid.UUID]*simpleblog.Category
	articleSlugs  map[string]uuid.UUID
	categorySlugs map[string]uuid.UUID
}

// New creates a new in-memory repository
func New() simpleblog.Repository {
	return &Repository{
		articles:      make(map[uuid.UUID]*simpleblog.Article),
		categories:    make(map[uuid.UUID]*simpleblog.Category),
		articleSlugs:  make(map[string]uuid.UUID),
		categorySlugs: make(map[string]uuid.UUID),
	}
}

// Article operations

func (r *Repository) CreateArticle(ctx context.Context, article *simpleblog.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.articleSlugs[article.Slug]; taken {
		return simpleblog.ErrDuplicateSlug
	}
	if _, exists := r.categories[article.CategoryID]; !exists {
		return simpleblog.ErrCategoryNotFound
	}

	// Store a copy to avoid external modifications
	articleCopy := cloneArticle(article)
	r.articles[article.ID] = articleCopy
	r.articleSlugs[article.Slug] = article.ID

	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id uuid.UUID) (*simpleblog.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, exists := r.articles[id]
	if !exists {
		return nil, simpleblog.ErrArticleNotFound
	}
	return cloneArticle(article), nil
}

func (r *Repository) GetArticleBySlug(ctx context.Context, slug string) (*simpleblog.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.articleSlugs[slug]
	if !exists {
		return nil, simpleblog.ErrArticleNotFound
	}
	return cloneArticle(r.articles[id]), nil
}

func (r *Repository) UpdateArticle(ctx context.Context, article *simpleblog.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.articles[article.ID]
	if !exists {
		return simpleblog.ErrArticleNotFound
	}
	if owner, taken := r.articleSlugs[article.Slug]; taken && owner != article.ID {
		return simpleblog.ErrDuplicateSlug
	}
	if _, exists := r.categories[article.CategoryID]; !exists {
		return simpleblog.ErrCategoryNotFound
	}

	delete(r.articleSlugs, existing.Slug)
	r.articleSlugs[article.Slug] = article.ID
	r.articles[article.ID] = cloneArticle(article)

	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	article, exists := r.articles[id]
	if !exists {
		return simpleblog.ErrArticleNotFound
	}

	delete(r.articleSlugs, article.Slug)
	delete(r.articles, id)

	return nil
}

func (r *Repository) ListArticles(ctx context.Context, filter simpleblog.ArticleFilter) ([]*simpleblog.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simpleblog.Article
	for _, article := range r.articles {
		if matchesFilter(article, filter) {
			result = append(result, cloneArticle(article))
		}
	}

	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return paginate(result, filter.Limit, filter.Offset), nil
}

func (r *Repository) CountArticles(ctx context.Context, filter simpleblog.ArticleFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, article := range r.articles {
		if matchesFilter(article, filter) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) ListRelatedArticles(ctx context.Context, params simpleblog.RelatedArticlesParams) ([]*simpleblog.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simpleblog.Article
	for _, article := range r.articles {
		if article.CategoryID != params.CategoryID || article.ID == params.ExcludeID {
			continue
		}
		if params.Status != nil && article.Status != *params.Status {
			continue
		}
		result = append(result, cloneArticle(article))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if params.Limit > 0 && len(result) > params.Limit {
		result = result[:params.Limit]
	}

	return result, nil
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *simpleblog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.categorySlugs[category.Slug]; taken {
		return simpleblog.ErrDuplicateSlug
	}

	categoryCopy := cloneCategory(category)
	r.categories[category.ID] = categoryCopy
	r.categorySlugs[category.Slug] = category.ID

	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*simpleblog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, simpleblog.ErrCategoryNotFound
	}

	out := cloneCategory(category)
	out.ArticleCount = r.countByCategoryLocked(id)
	return out, nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*simpleblog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.categorySlugs[slug]
	if !exists {
		return nil, simpleblog.ErrCategoryNotFound
	}

	out := cloneCategory(r.categories[id])
	out.ArticleCount = r.countByCategoryLocked(id)
	return out, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *simpleblog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.categories[category.ID]
	if !exists {
		return simpleblog.ErrCategoryNotFound
	}
	if owner, taken := r.categorySlugs[category.Slug]; taken && owner != category.ID {
		return simpleblog.ErrDuplicateSlug
	}

	delete(r.categorySlugs, existing.Slug)
	r.categorySlugs[category.Slug] = category.ID
	r.categories[category.ID] = cloneCategory(category)

	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, exists := r.categories[id]
	if !exists {
		return simpleblog.ErrCategoryNotFound
	}
	if r.countByCategoryLocked(id) > 0 {
		return simpleblog.ErrCategoryInUse
	}

	delete(r.categorySlugs, category.Slug)
	delete(r.categories, id)

	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*simpleblog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpleblog.Category, 0, len(r.categories))
	for id, category := range r.categories {
		out := cloneCategory(category)
		out.ArticleCount = r.countByCategoryLocked(id)
		result = append(result, out)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *Repository) CountArticlesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.countByCategoryLocked(categoryID), nil
}

// Helpers

func (r *Repository) countByCategoryLocked(categoryID uuid.UUID) int64 {
	var count int64
	for _, article := range r.articles {
		if article.CategoryID == categoryID {
			count++
		}
	}
	return count
}

func matchesFilter(article *simpleblog.Article, filter simpleblog.ArticleFilter) bool {
	if filter.Status != nil && article.Status != *filter.Status {
		return false
	}
	if filter.CategoryID != nil && article.CategoryID != *filter.CategoryID {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(article.Title), needle) &&
			!strings.Contains(strings.ToLower(article.Excerpt), needle) &&
			!strings.Contains(strings.ToLower(article.Description), needle) {
			return false
		}
	}
	return true
}

func paginate(articles []*simpleblog.Article, limit, offset *int) []*simpleblog.Article {
	if offset != nil {
		if *offset >= len(articles) {
			return nil
		}
		articles = articles[*offset:]
	}
	if limit != nil && *limit < len(articles) {
		articles = articles[:*limit]
	}
	return articles
}

func cloneArticle(a *simpleblog.Article) *simpleblog.Article {
	out := *a
	out.MetaKeywords = append([]string(nil), a.MetaKeywords...)
	out.Tags = append([]string(nil), a.Tags...)
	if a.BlogImage != nil {
		img := *a.BlogImage
		out.BlogImage = &img
	}
	if a.BannerImage != nil {
		img := *a.BannerImage
		out.BannerImage = &img
	}
	return &out
}

func cloneCategory(c *simpleblog.Category) *simpleblog.Category {
	out := *c
	if c.BannerImage != nil {
		img := *c.BannerImage
		out.BannerImage = &img
	}
	return &out
}
