package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
	"github.com/contentkit/simple-blog/pkg/simpleblog/api"
	imagememory "github.com/contentkit/simple-blog/pkg/simpleblog/imagestore/memory"
	"github.com/contentkit/simple-blog/pkg/simpleblog/repo/memory"
)

func newTestService(t *testing.T) (simpleblog.Service, *imagememory.Store) {
	t.Helper()

	store := imagememory.New()
	svc, err := simpleblog.New(
		simpleblog.WithRepository(memory.New()),
		simpleblog.WithImageStore(store),
	)
	require.NoError(t, err)
	return svc, store
}

func seedCategory(t *testing.T, svc simpleblog.Service, name string) *simpleblog.Category {
	t.Helper()

	category, err := svc.CreateCategory(context.Background(), simpleblog.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return category
}

func seedArticle(t *testing.T, svc simpleblog.Service, category *simpleblog.Category, title string, publish bool) *simpleblog.Article {
	t.Helper()

	article, err := svc.CreateArticle(context.Background(), simpleblog.CreateArticleRequest{
		Title:       title,
		Description: "<p>Some real content.</p>",
		Tags:        []string{"tag"},
		CategoryID:  category.ID,
	})
	require.NoError(t, err)

	if publish {
		article, err = svc.PublishArticle(context.Background(), article.ID)
		require.NoError(t, err)
	}
	return article
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func TestPublicListShowsOnlyPublished(t *testing.T) {
	svc, _ := newTestService(t)
	category := seedCategory(t, svc, "Travel")
	published := seedArticle(t, svc, category, "Published Trip", true)
	seedArticle(t, svc, category, "Draft Trip", false)

	router := api.NewPublicHandler(svc).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	articles := decodeBody[[]*simpleblog.Article](t, rec)
	require.Len(t, articles, 1)
	assert.Equal(t, published.ID, articles[0].ID)
}

func TestPublicGetArticle(t *testing.T) {
	svc, _ := newTestService(t)
	category := seedCategory(t, svc, "Travel")
	published := seedArticle(t, svc, category, "Published Trip", true)
	draft := seedArticle(t, svc, category, "Draft Trip", false)

	router := api.NewPublicHandler(svc).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/"+published.Slug, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[*simpleblog.Article](t, rec)
	assert.Equal(t, published.ID, got.ID)

	// A draft's slug is indistinguishable from a missing one.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/"+draft.Slug, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "article_not_found", errorCode(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/no-such-slug", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicListFilters(t *testing.T) {
	svc, _ := newTestService(t)
	travel := seedCategory(t, svc, "Travel")
	food := seedCategory(t, svc, "Food")
	trip := seedArticle(t, svc, travel, "Hiking in Norway", true)
	seedArticle(t, svc, food, "Baking Bread", true)

	router := api.NewPublicHandler(svc).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?category="+travel.Slug, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	articles := decodeBody[[]*simpleblog.Article](t, rec)
	require.Len(t, articles, 1)
	assert.Equal(t, trip.ID, articles[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?search=norway", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	articles = decodeBody[[]*simpleblog.Article](t, rec)
	require.Len(t, articles, 1)
	assert.Equal(t, trip.ID, articles[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?limit=1&offset=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	articles = decodeBody[[]*simpleblog.Article](t, rec)
	assert.Empty(t, articles)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?category=no-such-category", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicRelated(t *testing.T) {
	svc, _ := newTestService(t)
	category := seedCategory(t, svc, "Travel")
	base := seedArticle(t, svc, category, "Base Trip", true)
	sibling := seedArticle(t, svc, category, "Sibling Trip", true)
	seedArticle(t, svc, category, "Hidden Draft", false)

	router := api.NewPublicHandler(svc).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/blog/%s/related", base.Slug), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	related := decodeBody[[]*simpleblog.Article](t, rec)
	require.Len(t, related, 1)
	assert.Equal(t, sibling.ID, related[0].ID)
}

func TestPublicCategories(t *testing.T) {
	svc, _ := newTestService(t)
	travel := seedCategory(t, svc, "Travel")
	seedCategory(t, svc, "Food")
	seedArticle(t, svc, travel, "Trip", true)

	router := api.NewPublicHandler(svc).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decodeBody[[]*simpleblog.Category](t, rec)
	require.Len(t, categories, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category/"+travel.Slug, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[*simpleblog.Category](t, rec)
	assert.Equal(t, travel.ID, got.ID)
	assert.Equal(t, int64(1), got.ArticleCount)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category/no-such-slug", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category_not_found", errorCode(t, rec))
}
