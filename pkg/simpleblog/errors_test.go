package simpleblog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &simpleblog.ValidationError{Fields: map[string]string{
		"title":      "title is required",
		"categoryId": "category is required",
	}}

	// Field order in the message is deterministic.
	assert.Equal(t, "validation failed: categoryId: category is required; title: title is required", err.Error())

	empty := &simpleblog.ValidationError{}
	assert.Equal(t, "validation failed", empty.Error())
}

func TestWrappedErrorsUnwrap(t *testing.T) {
	articleID := uuid.New()

	articleErr := &simpleblog.ArticleError{
		ArticleID: articleID,
		Op:        "update",
		Err:       fmt.Errorf("%w: backend unavailable", simpleblog.ErrUploadFailed),
	}
	assert.ErrorIs(t, articleErr, simpleblog.ErrUploadFailed)
	assert.Contains(t, articleErr.Error(), "update")
	assert.Contains(t, articleErr.Error(), articleID.String())

	categoryErr := &simpleblog.CategoryError{Op: "delete", Err: simpleblog.ErrCategoryInUse}
	assert.ErrorIs(t, categoryErr, simpleblog.ErrCategoryInUse)

	storageErr := &simpleblog.StorageError{
		Backend: "s3",
		Key:     "blog/x.png",
		Op:      "upload",
		Err:     fmt.Errorf("%w: 503", simpleblog.ErrUploadFailed),
	}
	assert.ErrorIs(t, storageErr, simpleblog.ErrUploadFailed)
	assert.Contains(t, storageErr.Error(), "s3")
}

func TestValidationErrorAs(t *testing.T) {
	var target *simpleblog.ValidationError
	err := error(&simpleblog.ValidationError{Fields: map[string]string{"title": "required"}})

	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "required", target.Fields["title"])
}

func TestArticleStatusIsValid(t *testing.T) {
	assert.True(t, simpleblog.ArticleStatusDraft.IsValid())
	assert.True(t, simpleblog.ArticleStatusPublished.IsValid())
	assert.False(t, simpleblog.ArticleStatus("archived").IsValid())
	assert.False(t, simpleblog.ArticleStatus("").IsValid())
}
