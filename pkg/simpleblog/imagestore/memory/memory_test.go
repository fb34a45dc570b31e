package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

func TestUploadAndDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	record, err := store.Upload(ctx, simpleblog.UploadImageRequest{
		Reader:      strings.NewReader("image-bytes"),
		ContentType: "image/png",
		Folder:      "blog",
		Alt:         "a picture",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(record.PublicID, "blog/"))
	assert.Equal(t, "memory://"+record.PublicID, record.URL)
	assert.Equal(t, "a picture", record.Alt)
	assert.True(t, store.Has(record.PublicID))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, record.PublicID))
	assert.False(t, store.Has(record.PublicID))
	assert.Equal(t, 0, store.Len())
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	store := New()

	_, err := store.Upload(context.Background(), simpleblog.UploadImageRequest{
		Reader:      strings.NewReader("%PDF-1.4"),
		ContentType: "application/pdf",
		Folder:      "blog",
	})
	assert.ErrorIs(t, err, simpleblog.ErrUnsupportedImageType)
	assert.Equal(t, 0, store.Len())
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Upload(ctx, simpleblog.UploadImageRequest{
		Reader:      strings.NewReader(strings.Repeat("x", 32)),
		ContentType: "image/png",
		Folder:      "banner",
		MaxBytes:    16,
	})
	assert.ErrorIs(t, err, simpleblog.ErrImageTooLarge)
	assert.Equal(t, 0, store.Len())

	// Exactly at the limit is fine.
	record, err := store.Upload(ctx, simpleblog.UploadImageRequest{
		Reader:      strings.NewReader(strings.Repeat("x", 16)),
		ContentType: "image/png",
		Folder:      "banner",
		MaxBytes:    16,
	})
	require.NoError(t, err)
	assert.True(t, store.Has(record.PublicID))
}

func TestDeleteUnknownID(t *testing.T) {
	store := New()

	err := store.Delete(context.Background(), "blog/missing")
	assert.ErrorIs(t, err, simpleblog.ErrImageDeleteFailed)
}
