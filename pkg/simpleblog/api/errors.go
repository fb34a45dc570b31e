package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// errorBody is the JSON error envelope for both the admin and public APIs.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// renderError maps domain errors onto HTTP status codes. Anything
// unrecognized is logged with its cause and surfaced as a generic failure
// without internal detail.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *simpleblog.ValidationError
	if errors.As(err, &validationErr) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorBody{Error: errorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Fields:  validationErr.Fields,
		}})
		return
	}

	switch {
	case errors.Is(err, simpleblog.ErrArticleNotFound):
		renderCode(w, r, http.StatusNotFound, "article_not_found", "article not found")
	case errors.Is(err, simpleblog.ErrCategoryNotFound):
		renderCode(w, r, http.StatusNotFound, "category_not_found", "category not found")
	case errors.Is(err, simpleblog.ErrCategoryInUse):
		renderCode(w, r, http.StatusConflict, "category_in_use", "category has dependent articles")
	case errors.Is(err, simpleblog.ErrDuplicateSlug):
		renderCode(w, r, http.StatusConflict, "duplicate_slug", "an entity with this slug already exists")
	case errors.Is(err, simpleblog.ErrImageTooLarge):
		renderCode(w, r, http.StatusRequestEntityTooLarge, "image_too_large", "image exceeds the size limit")
	case errors.Is(err, simpleblog.ErrUnsupportedImageType):
		renderCode(w, r, http.StatusUnsupportedMediaType, "unsupported_image_type", "unsupported image content type")
	case errors.Is(err, simpleblog.ErrUploadFailed):
		renderCode(w, r, http.StatusBadGateway, "upload_failed", "image upload failed")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		renderCode(w, r, http.StatusInternalServerError, "internal_error", "operation failed")
	}
}

func renderCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: errorDetail{Code: code, Message: message}})
}
