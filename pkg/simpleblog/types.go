package simpleblog

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus is the domain type for article lifecycle states.
type ArticleStatus string

// Article status constants (typed).
const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// IsValid reports whether s is a known article status.
func (s ArticleStatus) IsValid() bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPublished:
		return true
	}
	return false
}

// ImageRecord is resolved metadata describing an uploaded image. It is a
// value object owned exclusively by the Article or Category field holding
// it; replacing it triggers deletion of the previously owned image from the
// image store. An image is never shared between two entities.
type ImageRecord struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
}

// Article represents a single blog post.
type Article struct {
	ID              uuid.UUID     `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	H1              string        `json:"h1,omitempty"`
	MetaTitle       string        `json:"meta_title,omitempty"`
	MetaDescription string        `json:"meta_description,omitempty"`
	MetaKeywords    []string      `json:"meta_keywords,omitempty"`
	Excerpt         string        `json:"excerpt,omitempty"`
	Description     string        `json:"description"` // rich HTML body
	Status          ArticleStatus `json:"status"`
	BlogImage       *ImageRecord  `json:"blog_image,omitempty"`
	BannerImage     *ImageRecord  `json:"banner_image,omitempty"`
	ImageAlt        string        `json:"image_alt,omitempty"`
	Tags            []string      `json:"tags"`
	CategoryID      uuid.UUID     `json:"category_id"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Category groups articles. ArticleCount is derived by list queries and not
// persisted.
type Category struct {
	ID           uuid.UUID    `json:"id"`
	Slug         string       `json:"slug"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	BannerImage  *ImageRecord `json:"banner_image,omitempty"`
	ArticleCount int64        `json:"article_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ArticleFilter defines filtering options for listing and counting articles.
// Search matches case-insensitively as a substring over title, excerpt and
// description. Zero-value filter means "everything, newest first".
type ArticleFilter struct {
	Status     *ArticleStatus
	CategoryID *uuid.UUID
	Search     string
	Limit      *int
	Offset     *int
}

// RelatedArticlesParams selects articles in the same category as a given
// article, excluding the article itself, newest first, bounded by Limit.
type RelatedArticlesParams struct {
	CategoryID uuid.UUID
	ExcludeID  uuid.UUID
	Limit      int
	Status     *ArticleStatus
}

// ArticleStatistics contains aggregated counts for the dashboard.
type ArticleStatistics struct {
	Total      int64            `json:"total"`
	Published  int64            `json:"published"`
	Draft      int64            `json:"draft"`
	ByCategory map[string]int64 `json:"by_category"` // category name -> article count
}
