package simpleblog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Render-cache keys. The HTTP layer and any external page renderer agree on
// these; mutations invalidate the affected keys.
const (
	ArticleListCacheKey  = "blog:list"
	CategoryListCacheKey = "category:list"
)

// ArticleCacheKey returns the cache key for an article detail page.
func ArticleCacheKey(slug string) string { return "blog:" + slug }

// CategoryCacheKey returns the cache key for a category detail page.
func CategoryCacheKey(slug string) string { return "category:" + slug }

// Image store folders per entity field.
const (
	blogImageFolder   = "blog"
	bannerImageFolder = "banner"
)

// Default per-upload size limits. The observed flows cap blog images at
// 5MB and banner images at 1MB; both are configurable per service.
const (
	DefaultBlogImageMaxBytes   = 5 << 20
	DefaultBannerImageMaxBytes = 1 << 20
)

// service implements the Service interface
type service struct {
	repository          Repository
	images              ImageStore
	cache               RenderCache
	logger              *slog.Logger
	blogImageMaxBytes   int64
	bannerImageMaxBytes int64
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithImageStore sets the image store for the service
func WithImageStore(store ImageStore) Option {
	return func(s *service) {
		s.images = store
	}
}

// WithRenderCache sets the render cache for the service
func WithRenderCache(cache RenderCache) Option {
	return func(s *service) {
		s.cache = cache
	}
}

// WithLogger sets the logger used for best-effort failure reporting
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithImageLimits sets the per-upload size limits passed to the image
// store, one per flow.
func WithImageLimits(blogMaxBytes, bannerMaxBytes int64) Option {
	return func(s *service) {
		s.blogImageMaxBytes = blogMaxBytes
		s.bannerImageMaxBytes = bannerMaxBytes
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blogImageMaxBytes:   DefaultBlogImageMaxBytes,
		bannerImageMaxBytes: DefaultBannerImageMaxBytes,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.cache == nil {
		s.cache = NewNoopRenderCache()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Article operations

func (s *service) CreateArticle(ctx context.Context, req CreateArticleRequest) (*Article, error) {
	status := req.Status
	if status == "" {
		status = ArticleStatusDraft
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	if !hasRenderedText(req.Description) {
		fields["description"] = "description must contain text"
	}
	if len(req.Tags) == 0 {
		fields["tags"] = "at least one tag is required"
	}
	if !status.IsValid() {
		fields["status"] = "status must be draft or published"
	}
	if req.CategoryID == uuid.Nil {
		fields["categoryId"] = "category is required"
	} else if _, err := s.repository.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			fields["categoryId"] = "category does not exist"
		} else {
			return nil, &ArticleError{Op: "create", Err: err}
		}
	}
	slug := Slugify(req.Title)
	if slug == "" && fields["title"] == "" {
		fields["title"] = "title must contain at least one letter or digit"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// Uploads happen before the record exists, so a failed upload aborts
	// creation with no partial record.
	blogImage, err := s.uploadIfSupplied(ctx, req.BlogImage, blogImageFolder)
	if err != nil {
		return nil, &ArticleError{Op: "create", Err: err}
	}
	bannerImage, err := s.uploadIfSupplied(ctx, req.BannerImage, bannerImageFolder)
	if err != nil {
		s.cleanupImage(ctx, blogImage)
		return nil, &ArticleError{Op: "create", Err: err}
	}

	now := time.Now().UTC()
	article := &Article{
		ID:              uuid.New(),
		Slug:            slug,
		Title:           req.Title,
		H1:              req.H1,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Excerpt:         req.Excerpt,
		Description:     req.Description,
		Status:          status,
		BlogImage:       blogImage,
		BannerImage:     bannerImage,
		ImageAlt:        req.ImageAlt,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repository.CreateArticle(ctx, article); err != nil {
		s.cleanupImage(ctx, blogImage)
		s.cleanupImage(ctx, bannerImage)
		return nil, &ArticleError{ArticleID: article.ID, Op: "create", Err: err}
	}

	s.invalidate(ctx, ArticleListCacheKey)

	return article, nil
}

func (s *service) GetArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	return s.repository.GetArticle(ctx, id)
}

func (s *service) UpdateArticle(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*Article, error) {
	existing, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}

	fields := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "title is required"
	}
	if !hasRenderedText(req.Description) {
		fields["description"] = "description must contain text"
	}
	if len(req.Tags) == 0 {
		fields["tags"] = "at least one tag is required"
	}
	if !status.IsValid() {
		fields["status"] = "status must be draft or published"
	}
	if req.CategoryID == uuid.Nil {
		fields["categoryId"] = "category is required"
	} else if _, err := s.repository.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			fields["categoryId"] = "category does not exist"
		} else {
			return nil, &ArticleError{ArticleID: id, Op: "update", Err: err}
		}
	}
	slug := Slugify(req.Title)
	if slug == "" && fields["title"] == "" {
		fields["title"] = "title must contain at least one letter or digit"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// Replacement uploads go first. Only after both the upload and the
	// metadata write succeed is the previous image deleted, so a crash
	// mid-operation never leaves the record pointing at a deleted image.
	blogImage, oldBlog, err := s.resolveImage(ctx, req.BlogImage, existing.BlogImage, blogImageFolder)
	if err != nil {
		return nil, &ArticleError{ArticleID: id, Op: "update", Err: err}
	}
	bannerImage, oldBanner, err := s.resolveImage(ctx, req.BannerImage, existing.BannerImage, bannerImageFolder)
	if err != nil {
		// The banner upload failed after a possible blog-image upload;
		// drop the fresh orphan, the record is untouched.
		if req.BlogImage.Op == ImageUpload {
			s.cleanupImage(ctx, blogImage)
		}
		return nil, &ArticleError{ArticleID: id, Op: "update", Err: err}
	}

	updated := &Article{
		ID:              existing.ID,
		Slug:            slug,
		Title:           req.Title,
		H1:              req.H1,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Excerpt:         req.Excerpt,
		Description:     req.Description,
		Status:          status,
		BlogImage:       blogImage,
		BannerImage:     bannerImage,
		ImageAlt:        req.ImageAlt,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		CreatedAt:       existing.CreatedAt,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.repository.UpdateArticle(ctx, updated); err != nil {
		if req.BlogImage.Op == ImageUpload {
			s.cleanupImage(ctx, blogImage)
		}
		if req.BannerImage.Op == ImageUpload {
			s.cleanupImage(ctx, bannerImage)
		}
		return nil, &ArticleError{ArticleID: id, Op: "update", Err: err}
	}

	// Replaced or removed images are deleted only now, best-effort.
	s.cleanupImage(ctx, oldBlog)
	s.cleanupImage(ctx, oldBanner)

	s.invalidate(ctx, ArticleListCacheKey, ArticleCacheKey(existing.Slug), ArticleCacheKey(updated.Slug))

	return updated, nil
}

func (s *service) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return err
	}

	// Image cleanup is best-effort; a failed delete never blocks removal
	// of the record.
	s.cleanupImage(ctx, existing.BlogImage)
	s.cleanupImage(ctx, existing.BannerImage)

	if err := s.repository.DeleteArticle(ctx, id); err != nil {
		return &ArticleError{ArticleID: id, Op: "delete", Err: err}
	}

	s.invalidate(ctx, ArticleListCacheKey, ArticleCacheKey(existing.Slug))

	return nil
}

func (s *service) PublishArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	return s.setArticleStatus(ctx, id, ArticleStatusPublished, "publish")
}

func (s *service) UnpublishArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	return s.setArticleStatus(ctx, id, ArticleStatusDraft, "unpublish")
}

// setArticleStatus is the DRAFT <-> PUBLISHED transition. It is a plain
// field update; there is no approval or review state in this design.
func (s *service) setArticleStatus(ctx context.Context, id uuid.UUID, status ArticleStatus, op string) (*Article, error) {
	article, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	article.Status = status
	article.UpdatedAt = time.Now().UTC()

	if err := s.repository.UpdateArticle(ctx, article); err != nil {
		return nil, &ArticleError{ArticleID: id, Op: op, Err: err}
	}

	s.invalidate(ctx, ArticleListCacheKey, ArticleCacheKey(article.Slug))

	return article, nil
}

func (s *service) ListArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error) {
	return s.repository.ListArticles(ctx, filter)
}

// Category operations

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	fields := map[string]string{}
	if len(strings.TrimSpace(req.Name)) < 2 {
		fields["name"] = "name must be at least 2 characters"
	}
	slug := Slugify(req.Name)
	if slug == "" && fields["name"] == "" {
		fields["name"] = "name must contain at least one letter or digit"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	bannerImage, err := s.uploadIfSupplied(ctx, req.BannerImage, bannerImageFolder)
	if err != nil {
		return nil, &CategoryError{Op: "create", Err: err}
	}

	now := time.Now().UTC()
	category := &Category{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		BannerImage: bannerImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateCategory(ctx, category); err != nil {
		s.cleanupImage(ctx, bannerImage)
		return nil, &CategoryError{CategoryID: category.ID, Op: "create", Err: err}
	}

	s.invalidate(ctx, CategoryListCacheKey)

	return category, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repository.GetCategory(ctx, id)
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*Category, error) {
	existing, err := s.repository.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if len(strings.TrimSpace(req.Name)) < 2 {
		fields["name"] = "name must be at least 2 characters"
	}
	slug := Slugify(req.Name)
	if slug == "" && fields["name"] == "" {
		fields["name"] = "name must contain at least one letter or digit"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	bannerImage, oldBanner, err := s.resolveImage(ctx, req.BannerImage, existing.BannerImage, bannerImageFolder)
	if err != nil {
		return nil, &CategoryError{CategoryID: id, Op: "update", Err: err}
	}

	updated := &Category{
		ID:          existing.ID,
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		BannerImage: bannerImage,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repository.UpdateCategory(ctx, updated); err != nil {
		if req.BannerImage.Op == ImageUpload {
			s.cleanupImage(ctx, bannerImage)
		}
		return nil, &CategoryError{CategoryID: id, Op: "update", Err: err}
	}

	s.cleanupImage(ctx, oldBanner)

	s.invalidate(ctx, CategoryListCacheKey, CategoryCacheKey(existing.Slug), CategoryCacheKey(updated.Slug))

	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repository.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repository.CountArticlesByCategory(ctx, id)
	if err != nil {
		return &CategoryError{CategoryID: id, Op: "delete", Err: err}
	}
	if count > 0 {
		return &CategoryError{CategoryID: id, Op: "delete", Err: ErrCategoryInUse}
	}

	s.cleanupImage(ctx, existing.BannerImage)

	if err := s.repository.DeleteCategory(ctx, id); err != nil {
		return &CategoryError{CategoryID: id, Op: "delete", Err: err}
	}

	s.invalidate(ctx, CategoryListCacheKey, CategoryCacheKey(existing.Slug))

	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repository.ListCategories(ctx)
}

// Read API

func (s *service) GetPublishedArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	article, err := s.repository.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	// Drafts are invisible on the public path. Hard visibility rule, not
	// an optimization.
	if article.Status != ArticleStatusPublished {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

func (s *service) ListPublishedArticles(ctx context.Context, req PublicListRequest) ([]*Article, error) {
	published := ArticleStatusPublished
	filter := ArticleFilter{
		Status: &published,
		Search: req.Search,
	}
	if req.CategorySlug != "" {
		category, err := s.repository.GetCategoryBySlug(ctx, req.CategorySlug)
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &category.ID
	}
	if req.Limit > 0 {
		filter.Limit = &req.Limit
	}
	if req.Offset > 0 {
		filter.Offset = &req.Offset
	}
	return s.repository.ListArticles(ctx, filter)
}

func (s *service) ListRelatedArticles(ctx context.Context, articleID uuid.UUID, limit int) ([]*Article, error) {
	article, err := s.repository.GetArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	published := ArticleStatusPublished
	return s.repository.ListRelatedArticles(ctx, RelatedArticlesParams{
		CategoryID: article.CategoryID,
		ExcludeID:  article.ID,
		Limit:      limit,
		Status:     &published,
	})
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.repository.GetCategoryBySlug(ctx, slug)
}

func (s *service) GetDashboardStatistics(ctx context.Context) (*ArticleStatistics, error) {
	total, err := s.repository.CountArticles(ctx, ArticleFilter{})
	if err != nil {
		return nil, err
	}

	published := ArticleStatusPublished
	publishedCount, err := s.repository.CountArticles(ctx, ArticleFilter{Status: &published})
	if err != nil {
		return nil, err
	}

	draft := ArticleStatusDraft
	draftCount, err := s.repository.CountArticles(ctx, ArticleFilter{Status: &draft})
	if err != nil {
		return nil, err
	}

	categories, err := s.repository.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]int64, len(categories))
	for _, c := range categories {
		byCategory[c.Name] = c.ArticleCount
	}

	return &ArticleStatistics{
		Total:      total,
		Published:  publishedCount,
		Draft:      draftCount,
		ByCategory: byCategory,
	}, nil
}

// Helpers

// uploadIfSupplied uploads the image for an Upload input and returns nil
// for Keep/Remove (creates have nothing to keep or remove).
func (s *service) uploadIfSupplied(ctx context.Context, input ImageInput, folder string) (*ImageRecord, error) {
	if input.Op != ImageUpload {
		return nil, nil
	}
	if s.images == nil {
		return nil, fmt.Errorf("%w: no image store configured", ErrUploadFailed)
	}
	maxBytes := s.blogImageMaxBytes
	if folder == bannerImageFolder {
		maxBytes = s.bannerImageMaxBytes
	}
	return s.images.Upload(ctx, UploadImageRequest{
		Reader:      input.Reader,
		ContentType: input.ContentType,
		Folder:      folder,
		Alt:         input.Alt,
		MaxBytes:    maxBytes,
	})
}

// resolveImage applies an ImageInput against the image an entity currently
// holds. It returns the record to persist and the record to delete after
// the metadata write succeeds (nil when nothing is to be deleted).
func (s *service) resolveImage(ctx context.Context, input ImageInput, current *ImageRecord, folder string) (next, replaced *ImageRecord, err error) {
	switch input.Op {
	case ImageKeep:
		return current, nil, nil
	case ImageRemove:
		return nil, current, nil
	case ImageUpload:
		uploaded, err := s.uploadIfSupplied(ctx, input, folder)
		if err != nil {
			return nil, nil, err
		}
		return uploaded, current, nil
	default:
		return nil, nil, fmt.Errorf("unknown image op %d", input.Op)
	}
}

// cleanupImage deletes an image best-effort. Failures are logged and
// swallowed; an orphaned binary in the image store is acceptable, a record
// pointing at a deleted image is not.
func (s *service) cleanupImage(ctx context.Context, record *ImageRecord) {
	if record == nil || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, record.PublicID); err != nil {
		s.logger.Warn("best-effort image delete failed", "public_id", record.PublicID, "error", err)
	}
}

// invalidate drops render-cache keys best-effort.
func (s *service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("render cache invalidation failed", "keys", strings.Join(keys, ","), "error", err)
	}
}
