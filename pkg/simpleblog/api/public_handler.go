package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// Default and maximum page sizes for public listings.
const (
	defaultPageSize = 20
	maxPageSize     = 100

	defaultRelatedLimit = 4
)

// PublicHandler serves the public read API. Every operation filters to
// published articles; a draft's slug is a 404 here.
type PublicHandler struct {
	service simpleblog.Service
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(service simpleblog.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// Routes returns the routes for the public API
func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/blog", h.ListArticles)
	r.Get("/blog/{slug}", h.GetArticle)
	r.Get("/blog/{slug}/related", h.ListRelated)
	r.Get("/category", h.ListCategories)
	r.Get("/category/{slug}", h.GetCategory)

	return r
}

// ListArticles lists published articles, optionally scoped to a category
// slug or a search term
func (h *PublicHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	req := simpleblog.PublicListRequest{
		CategorySlug: r.URL.Query().Get("category"),
		Search:       r.URL.Query().Get("search"),
		Limit:        queryInt(r, "limit", defaultPageSize, maxPageSize),
		Offset:       queryInt(r, "offset", 0, 1<<30),
	}

	articles, err := h.service.ListPublishedArticles(r.Context(), req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, articles)
}

// GetArticle returns a published article by slug
func (h *PublicHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.GetPublishedArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, article)
}

// ListRelated returns published articles from the same category
func (h *PublicHandler) ListRelated(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.GetPublishedArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	limit := queryInt(r, "limit", defaultRelatedLimit, maxPageSize)
	related, err := h.service.ListRelatedArticles(r.Context(), article.ID, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, related)
}

// ListCategories lists all categories with article counts
func (h *PublicHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, categories)
}

// GetCategory returns a category by slug
func (h *PublicHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, category)
}

func queryInt(r *http.Request, name string, fallback, max int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
