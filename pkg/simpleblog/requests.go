package simpleblog

import (
	"io"

	"github.com/google/uuid"
)

// Request DTOs

// ImageOp discriminates the image input union: keep the current image,
// remove it, or upload a replacement.
type ImageOp int

const (
	ImageKeep ImageOp = iota
	ImageRemove
	ImageUpload
)

// ImageInput is a tagged variant for an image field on a create/update
// request. The zero value keeps whatever image the entity already holds
// (no image, for creates).
type ImageInput struct {
	Op          ImageOp
	Reader      io.Reader
	ContentType string
	Alt         string
}

// KeepImage leaves the entity's current image untouched.
func KeepImage() ImageInput {
	return ImageInput{Op: ImageKeep}
}

// RemoveImage clears the entity's image and deletes the stored binary
// (best-effort) after the metadata update succeeds.
func RemoveImage() ImageInput {
	return ImageInput{Op: ImageRemove}
}

// NewImageUpload supplies a replacement image. The upload happens before
// the metadata write; the previous image, if any, is deleted only after
// both succeed.
func NewImageUpload(r io.Reader, contentType, alt string) ImageInput {
	return ImageInput{Op: ImageUpload, Reader: r, ContentType: contentType, Alt: alt}
}

// CreateArticleRequest contains parameters for creating an article.
// Status defaults to draft when empty.
type CreateArticleRequest struct {
	Title           string
	H1              string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    []string
	Excerpt         string
	Description     string
	Status          ArticleStatus
	BlogImage       ImageInput
	BannerImage     ImageInput
	ImageAlt        string
	Tags            []string
	CategoryID      uuid.UUID
}

// UpdateArticleRequest contains the full replacement of an article's
// editable fields. The slug is re-derived from Title.
type UpdateArticleRequest struct {
	Title           string
	H1              string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    []string
	Excerpt         string
	Description     string
	Status          ArticleStatus
	BlogImage       ImageInput
	BannerImage     ImageInput
	ImageAlt        string
	Tags            []string
	CategoryID      uuid.UUID
}

// CreateCategoryRequest contains parameters for creating a category.
type CreateCategoryRequest struct {
	Name        string
	Description string
	BannerImage ImageInput
}

// UpdateCategoryRequest contains the full replacement of a category's
// editable fields. The slug is re-derived from Name.
type UpdateCategoryRequest struct {
	Name        string
	Description string
	BannerImage ImageInput
}

// PublicListRequest contains paging parameters for public article listings.
type PublicListRequest struct {
	CategorySlug string
	Search       string
	Limit        int
	Offset       int
}
