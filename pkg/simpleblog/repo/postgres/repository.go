package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpleblog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simpleblog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simpleblog.Repository {
	return &Repository{db: pool}
}

// EnsureSchema applies the baseline DDL. Statements are idempotent
// (CREATE TABLE IF NOT EXISTS), so this is safe to run at every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// mapError translates pgx/Postgres failures onto the domain sentinels.
func mapError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return simpleblog.ErrDuplicateSlug
			}
			return fmt.Errorf("duplicate entry in %s: %s", operation, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return simpleblog.ErrCategoryNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - schema bootstrap required")
		}
		return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

const articleColumns = `
	id, slug, title, h1, meta_title, meta_description, meta_keywords,
	excerpt, description, status,
	blog_image_public_id, blog_image_url, blog_image_alt,
	banner_image_public_id, banner_image_url, banner_image_alt,
	image_alt, tags, category_id, created_at, updated_at`

// Article operations

func (r *Repository) CreateArticle(ctx context.Context, a *simpleblog.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		          $14, $15, $16, $17, $18, $19, $20, $21)`

	blogID, blogURL, blogAlt := splitImage(a.BlogImage)
	bannerID, bannerURL, bannerAlt := splitImage(a.BannerImage)

	_, err := r.db.Exec(ctx, query,
		a.ID, a.Slug, a.Title, a.H1, a.MetaTitle, a.MetaDescription, a.MetaKeywords,
		a.Excerpt, a.Description, string(a.Status),
		blogID, blogURL, blogAlt,
		bannerID, bannerURL, bannerAlt,
		a.ImageAlt, a.Tags, a.CategoryID, a.CreatedAt, a.UpdatedAt)

	if err != nil {
		return mapError("create article", err)
	}

	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id uuid.UUID) (*simpleblog.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	return r.scanArticle(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetArticleBySlug(ctx context.Context, slug string) (*simpleblog.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`
	return r.scanArticle(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) UpdateArticle(ctx context.Context, a *simpleblog.Article) error {
	query := `
		UPDATE articles SET
			slug = $2, title = $3, h1 = $4, meta_title = $5,
			meta_description = $6, meta_keywords = $7, excerpt = $8,
			description = $9, status = $10,
			blog_image_public_id = $11, blog_image_url = $12, blog_image_alt = $13,
			banner_image_public_id = $14, banner_image_url = $15, banner_image_alt = $16,
			image_alt = $17, tags = $18, category_id = $19, updated_at = $20
		WHERE id = $1`

	blogID, blogURL, blogAlt := splitImage(a.BlogImage)
	bannerID, bannerURL, bannerAlt := splitImage(a.BannerImage)

	tag, err := r.db.Exec(ctx, query,
		a.ID, a.Slug, a.Title, a.H1, a.MetaTitle,
		a.MetaDescription, a.MetaKeywords, a.Excerpt,
		a.Description, string(a.Status),
		blogID, blogURL, blogAlt,
		bannerID, bannerURL, bannerAlt,
		a.ImageAlt, a.Tags, a.CategoryID, a.UpdatedAt)

	if err != nil {
		return mapError("update article", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrArticleNotFound
	}

	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return mapError("delete article", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrArticleNotFound
	}
	return nil
}

func (r *Repository) ListArticles(ctx context.Context, filter simpleblog.ArticleFilter) ([]*simpleblog.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	where, args := filterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit != nil {
		args = append(args, *filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset != nil {
		args = append(args, *filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list articles", err)
	}
	defer rows.Close()

	var articles []*simpleblog.Article
	for rows.Next() {
		article, err := r.scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

func (r *Repository) CountArticles(ctx context.Context, filter simpleblog.ArticleFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM articles`
	where, args := filterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapError("count articles", err)
	}
	return count, nil
}

func (r *Repository) ListRelatedArticles(ctx context.Context, params simpleblog.RelatedArticlesParams) ([]*simpleblog.Article, error) {
	query := `SELECT ` + articleColumns + `
		FROM articles
		WHERE category_id = $1 AND id <> $2`
	args := []interface{}{params.CategoryID, params.ExcludeID}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list related articles", err)
	}
	defer rows.Close()

	var articles []*simpleblog.Article
	for rows.Next() {
		article, err := r.scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// Category operations

const categoryColumns = `
	id, slug, name, description,
	banner_image_public_id, banner_image_url, banner_image_alt,
	created_at, updated_at`

func (r *Repository) CreateCategory(ctx context.Context, c *simpleblog.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	bannerID, bannerURL, bannerAlt := splitImage(c.BannerImage)

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Slug, c.Name, c.Description,
		bannerID, bannerURL, bannerAlt,
		c.CreatedAt, c.UpdatedAt)

	if err != nil {
		return mapError("create category", err)
	}

	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*simpleblog.Category, error) {
	query := `
		SELECT c.id, c.slug, c.name, c.description,
		       c.banner_image_public_id, c.banner_image_url, c.banner_image_alt,
		       c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id)
		FROM categories c WHERE c.id = $1`
	return r.scanCategory(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*simpleblog.Category, error) {
	query := `
		SELECT c.id, c.slug, c.name, c.description,
		       c.banner_image_public_id, c.banner_image_url, c.banner_image_alt,
		       c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM articles a WHERE a.category_id = c.id)
		FROM categories c WHERE c.slug = $1`
	return r.scanCategory(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) UpdateCategory(ctx context.Context, c *simpleblog.Category) error {
	query := `
		UPDATE categories SET
			slug = $2, name = $3, description = $4,
			banner_image_public_id = $5, banner_image_url = $6, banner_image_alt = $7,
			updated_at = $8
		WHERE id = $1`

	bannerID, bannerURL, bannerAlt := splitImage(c.BannerImage)

	tag, err := r.db.Exec(ctx, query,
		c.ID, c.Slug, c.Name, c.Description,
		bannerID, bannerURL, bannerAlt,
		c.UpdatedAt)

	if err != nil {
		return mapError("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrCategoryNotFound
	}

	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// Articles reference categories with ON DELETE RESTRICT.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return simpleblog.ErrCategoryInUse
		}
		return mapError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*simpleblog.Category, error) {
	query := `
		SELECT c.id, c.slug, c.name, c.description,
		       c.banner_image_public_id, c.banner_image_url, c.banner_image_alt,
		       c.created_at, c.updated_at,
		       COUNT(a.id)
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	var categories []*simpleblog.Category
	for rows.Next() {
		category, err := r.scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (r *Repository) CountArticlesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, mapError("count articles by category", err)
	}
	return count, nil
}

// Scan helpers

func (r *Repository) scanArticle(row pgx.Row) (*simpleblog.Article, error) {
	var (
		a         simpleblog.Article
		status    string
		blogID    *string
		blogURL   *string
		blogAlt   *string
		bannerID  *string
		bannerURL *string
		bannerAlt *string
	)

	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.H1, &a.MetaTitle, &a.MetaDescription, &a.MetaKeywords,
		&a.Excerpt, &a.Description, &status,
		&blogID, &blogURL, &blogAlt,
		&bannerID, &bannerURL, &bannerAlt,
		&a.ImageAlt, &a.Tags, &a.CategoryID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrArticleNotFound
		}
		return nil, mapError("scan article", err)
	}

	a.Status = simpleblog.ArticleStatus(status)
	a.BlogImage = joinImage(blogID, blogURL, blogAlt)
	a.BannerImage = joinImage(bannerID, bannerURL, bannerAlt)

	return &a, nil
}

func (r *Repository) scanCategory(row pgx.Row) (*simpleblog.Category, error) {
	var (
		c         simpleblog.Category
		bannerID  *string
		bannerURL *string
		bannerAlt *string
	)

	err := row.Scan(
		&c.ID, &c.Slug, &c.Name, &c.Description,
		&bannerID, &bannerURL, &bannerAlt,
		&c.CreatedAt, &c.UpdatedAt, &c.ArticleCount)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrCategoryNotFound
		}
		return nil, mapError("scan category", err)
	}

	c.BannerImage = joinImage(bannerID, bannerURL, bannerAlt)

	return &c, nil
}

func filterClauses(filter simpleblog.ArticleFilter) ([]string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	return where, args
}

func splitImage(img *simpleblog.ImageRecord) (publicID, url, alt *string) {
	if img == nil {
		return nil, nil, nil
	}
	return &img.PublicID, &img.URL, &img.Alt
}

func joinImage(publicID, url, alt *string) *simpleblog.ImageRecord {
	if publicID == nil {
		return nil
	}
	img := simpleblog.ImageRecord{PublicID: *publicID}
	if url != nil {
		img.URL = *url
	}
	if alt != nil {
		img.Alt = *alt
	}
	return &img
}
