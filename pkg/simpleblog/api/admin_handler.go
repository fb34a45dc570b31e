package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// maxFormMemory bounds in-memory buffering of multipart bodies; larger
// parts spill to disk.
const maxFormMemory = 10 << 20

// AdminHandler serves the authenticated dashboard API: full CRUD over
// articles and categories plus statistics. Unlike the public handler it
// sees drafts.
type AdminHandler struct {
	service simpleblog.Service
	auth    *jwtauth.JWTAuth
}

// NewAdminHandler creates a new admin handler. auth may be nil to disable
// token verification (tests, local development).
func NewAdminHandler(service simpleblog.Service, auth *jwtauth.JWTAuth) *AdminHandler {
	return &AdminHandler{service: service, auth: auth}
}

// Routes returns the routes for the admin API
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	if h.auth != nil {
		r.Use(jwtauth.Verifier(h.auth))
		r.Use(jwtauth.Authenticator)
	}

	r.Route("/articles", func(r chi.Router) {
		r.Post("/", h.CreateArticle)
		r.Get("/", h.ListArticles)
		r.Get("/{id}", h.GetArticle)
		r.Put("/{id}", h.UpdateArticle)
		r.Delete("/{id}", h.DeleteArticle)
		r.Post("/{id}/publish", h.PublishArticle)
		r.Post("/{id}/unpublish", h.UnpublishArticle)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Get("/stats", h.GetStatistics)

	return r
}

// articleForm is the wire shape shared by the JSON and multipart article
// endpoints. In multipart requests, list fields arrive comma-separated and
// images arrive as file parts named blogImage / bannerImage.
type articleForm struct {
	Title             string   `json:"title"`
	H1                string   `json:"h1"`
	MetaTitle         string   `json:"metaTitle"`
	MetaDescription   string   `json:"metaDescription"`
	MetaKeywords      []string `json:"metaKeywords"`
	Excerpt           string   `json:"excerpt"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	ImageAlt          string   `json:"imageAlt"`
	Tags              []string `json:"tags"`
	CategoryID        string   `json:"categoryId"`
	RemoveBlogImage   bool     `json:"removeBlogImage"`
	RemoveBannerImage bool     `json:"removeBannerImage"`

	blogImage   simpleblog.ImageInput
	bannerImage simpleblog.ImageInput
}

func parseArticleForm(r *http.Request) (*articleForm, error) {
	var form articleForm

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, &simpleblog.ValidationError{Fields: map[string]string{"body": "invalid multipart form"}}
		}
		form.Title = r.FormValue("title")
		form.H1 = r.FormValue("h1")
		form.MetaTitle = r.FormValue("metaTitle")
		form.MetaDescription = r.FormValue("metaDescription")
		form.MetaKeywords = splitList(r.FormValue("metaKeywords"))
		form.Excerpt = r.FormValue("excerpt")
		form.Description = r.FormValue("description")
		form.Status = r.FormValue("status")
		form.ImageAlt = r.FormValue("imageAlt")
		form.Tags = splitList(r.FormValue("tags"))
		form.CategoryID = r.FormValue("categoryId")
		form.RemoveBlogImage = r.FormValue("removeBlogImage") == "true"
		form.RemoveBannerImage = r.FormValue("removeBannerImage") == "true"

		form.blogImage = fileInput(r, "blogImage", form.ImageAlt, form.RemoveBlogImage)
		form.bannerImage = fileInput(r, "bannerImage", form.ImageAlt, form.RemoveBannerImage)
		return &form, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, &simpleblog.ValidationError{Fields: map[string]string{"body": "invalid JSON body"}}
	}
	form.blogImage = removeOrKeep(form.RemoveBlogImage)
	form.bannerImage = removeOrKeep(form.RemoveBannerImage)
	return &form, nil
}

// fileInput resolves an image form part into the tagged union: an attached
// file wins, then an explicit removal flag, otherwise keep.
func fileInput(r *http.Request, field, alt string, remove bool) simpleblog.ImageInput {
	file, header, err := r.FormFile(field)
	if err == nil {
		return simpleblog.NewImageUpload(file, header.Header.Get("Content-Type"), alt)
	}
	return removeOrKeep(remove)
}

func removeOrKeep(remove bool) simpleblog.ImageInput {
	if remove {
		return simpleblog.RemoveImage()
	}
	return simpleblog.KeepImage()
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateArticle creates a new article
func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	form, err := parseArticleForm(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	categoryID, err := uuid.Parse(form.CategoryID)
	if err != nil {
		renderError(w, r, &simpleblog.ValidationError{Fields: map[string]string{"categoryId": "invalid category id"}})
		return
	}

	article, err := h.service.CreateArticle(r.Context(), simpleblog.CreateArticleRequest{
		Title:           form.Title,
		H1:              form.H1,
		MetaTitle:       form.MetaTitle,
		MetaDescription: form.MetaDescription,
		MetaKeywords:    form.MetaKeywords,
		Excerpt:         form.Excerpt,
		Description:     form.Description,
		Status:          simpleblog.ArticleStatus(strings.ToLower(form.Status)),
		BlogImage:       form.blogImage,
		BannerImage:     form.bannerImage,
		ImageAlt:        form.ImageAlt,
		Tags:            form.Tags,
		CategoryID:      categoryID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, article)
}

// GetArticle returns a single article, any status
func (h *AdminHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrArticleNotFound)
		return
	}

	article, err := h.service.GetArticle(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, article)
}

// UpdateArticle replaces an article's editable fields
func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrArticleNotFound)
		return
	}

	form, err := parseArticleForm(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	categoryID, err := uuid.Parse(form.CategoryID)
	if err != nil {
		renderError(w, r, &simpleblog.ValidationError{Fields: map[string]string{"categoryId": "invalid category id"}})
		return
	}

	article, err := h.service.UpdateArticle(r.Context(), id, simpleblog.UpdateArticleRequest{
		Title:           form.Title,
		H1:              form.H1,
		MetaTitle:       form.MetaTitle,
		MetaDescription: form.MetaDescription,
		MetaKeywords:    form.MetaKeywords,
		Excerpt:         form.Excerpt,
		Description:     form.Description,
		Status:          simpleblog.ArticleStatus(strings.ToLower(form.Status)),
		BlogImage:       form.blogImage,
		BannerImage:     form.bannerImage,
		ImageAlt:        form.ImageAlt,
		Tags:            form.Tags,
		CategoryID:      categoryID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, article)
}

// DeleteArticle removes an article and its images
func (h *AdminHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrArticleNotFound)
		return
	}

	if err := h.service.DeleteArticle(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// PublishArticle transitions an article to published
func (h *AdminHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.PublishArticle)
}

// UnpublishArticle transitions an article back to draft
func (h *AdminHandler) UnpublishArticle(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.UnpublishArticle)
}

func (h *AdminHandler) setStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (*simpleblog.Article, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrArticleNotFound)
		return
	}

	article, err := op(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, article)
}

// ListArticles lists articles of any status, with optional filters
func (h *AdminHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	filter := simpleblog.ArticleFilter{
		Search: r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := simpleblog.ArticleStatus(strings.ToLower(v))
		if !status.IsValid() {
			renderError(w, r, &simpleblog.ValidationError{Fields: map[string]string{"status": "status must be draft or published"}})
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("categoryId"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			renderError(w, r, &simpleblog.ValidationError{Fields: map[string]string{"categoryId": "invalid category id"}})
			return
		}
		filter.CategoryID = &categoryID
	}

	articles, err := h.service.ListArticles(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, articles)
}

// categoryForm is the wire shape shared by the JSON and multipart category
// endpoints.
type categoryForm struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	RemoveBannerImage bool   `json:"removeBannerImage"`

	bannerImage simpleblog.ImageInput
}

func parseCategoryForm(r *http.Request) (*categoryForm, error) {
	var form categoryForm

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, &simpleblog.ValidationError{Fields: map[string]string{"body": "invalid multipart form"}}
		}
		form.Name = r.FormValue("name")
		form.Description = r.FormValue("description")
		form.RemoveBannerImage = r.FormValue("removeBannerImage") == "true"
		form.bannerImage = fileInput(r, "bannerImage", form.Name, form.RemoveBannerImage)
		return &form, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, &simpleblog.ValidationError{Fields: map[string]string{"body": "invalid JSON body"}}
	}
	form.bannerImage = removeOrKeep(form.RemoveBannerImage)
	return &form, nil
}

// CreateCategory creates a new category
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	form, err := parseCategoryForm(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), simpleblog.CreateCategoryRequest{
		Name:        form.Name,
		Description: form.Description,
		BannerImage: form.bannerImage,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, category)
}

// GetCategory returns a single category with its dependent article count
func (h *AdminHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrCategoryNotFound)
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, category)
}

// UpdateCategory replaces a category's editable fields
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrCategoryNotFound)
		return
	}

	form, err := parseCategoryForm(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, simpleblog.UpdateCategoryRequest{
		Name:        form.Name,
		Description: form.Description,
		BannerImage: form.bannerImage,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, category)
}

// DeleteCategory removes a category; blocked while articles reference it
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, simpleblog.ErrCategoryNotFound)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// ListCategories lists all categories with dependent article counts
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, categories)
}

// GetStatistics returns dashboard counts
func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStatistics(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, stats)
}
