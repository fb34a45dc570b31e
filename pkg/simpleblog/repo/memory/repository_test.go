package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

func newCategory(name, slug string) *simpleblog.Category {
	now := time.Now().UTC()
	return &simpleblog.Category{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newArticle(categoryID uuid.UUID, title, slug string, status simpleblog.ArticleStatus, createdAt time.Time) *simpleblog.Article {
	return &simpleblog.Article{
		ID:          uuid.New(),
		Slug:        slug,
		Title:       title,
		Description: "<p>body</p>",
		Status:      status,
		Tags:        []string{"tag"},
		CategoryID:  categoryID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestArticleCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()

	category := newCategory("Travel", "travel")
	require.NoError(t, repo.CreateCategory(ctx, category))

	article := newArticle(category.ID, "My First Trip", "my-first-trip", simpleblog.ArticleStatusDraft, time.Now().UTC())
	require.NoError(t, repo.CreateArticle(ctx, article))

	got, err := repo.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)

	bySlug, err := repo.GetArticleBySlug(ctx, "my-first-trip")
	require.NoError(t, err)
	assert.Equal(t, article.ID, bySlug.ID)

	article.Title = "My Second Trip"
	article.Slug = "my-second-trip"
	require.NoError(t, repo.UpdateArticle(ctx, article))

	_, err = repo.GetArticleBySlug(ctx, "my-first-trip")
	assert.ErrorIs(t, err, simpleblog.ErrArticleNotFound)

	bySlug, err = repo.GetArticleBySlug(ctx, "my-second-trip")
	require.NoError(t, err)
	assert.Equal(t, article.ID, bySlug.ID)

	require.NoError(t, repo.DeleteArticle(ctx, article.ID))

	_, err = repo.GetArticle(ctx, article.ID)
	assert.ErrorIs(t, err, simpleblog.ErrArticleNotFound)
	_, err = repo.GetArticleBySlug(ctx, "my-second-trip")
	assert.ErrorIs(t, err, simpleblog.ErrArticleNotFound)
}

func TestCreateArticleConstraints(t *testing.T) {
	repo := New()
	ctx := context.Background()

	category := newCategory("Travel", "travel")
	require.NoError(t, repo.CreateCategory(ctx, category))

	first := newArticle(category.ID, "Trip", "trip", simpleblog.ArticleStatusDraft, time.Now().UTC())
	require.NoError(t, repo.CreateArticle(ctx, first))

	// Same slug again is rejected.
	dup := newArticle(category.ID, "Trip", "trip", simpleblog.ArticleStatusDraft, time.Now().UTC())
	assert.ErrorIs(t, repo.CreateArticle(ctx, dup), simpleblog.ErrDuplicateSlug)

	// Dangling category reference is rejected.
	orphan := newArticle(uuid.New(), "Orphan", "orphan", simpleblog.ArticleStatusDraft, time.Now().UTC())
	assert.ErrorIs(t, repo.CreateArticle(ctx, orphan), simpleblog.ErrCategoryNotFound)
}

func TestListArticlesFilters(t *testing.T) {
	repo := New()
	ctx := context.Background()

	travel := newCategory("Travel", "travel")
	food := newCategory("Food", "food")
	require.NoError(t, repo.CreateCategory(ctx, travel))
	require.NoError(t, repo.CreateCategory(ctx, food))

	base := time.Now().UTC()
	published := simpleblog.ArticleStatusPublished
	draft := simpleblog.ArticleStatusDraft

	a1 := newArticle(travel.ID, "Hiking in Norway", "hiking-in-norway", published, base.Add(1*time.Minute))
	a2 := newArticle(travel.ID, "City Breaks", "city-breaks", draft, base.Add(2*time.Minute))
	a3 := newArticle(food.ID, "Baking Bread", "baking-bread", published, base.Add(3*time.Minute))
	for _, a := range []*simpleblog.Article{a1, a2, a3} {
		require.NoError(t, repo.CreateArticle(ctx, a))
	}

	t.Run("no filter returns newest first", func(t *testing.T) {
		got, err := repo.ListArticles(ctx, simpleblog.ArticleFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, a3.ID, got[0].ID)
		assert.Equal(t, a2.ID, got[1].ID)
		assert.Equal(t, a1.ID, got[2].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := repo.ListArticles(ctx, simpleblog.ArticleFilter{Status: &published})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("category filter", func(t *testing.T) {
		got, err := repo.ListArticles(ctx, simpleblog.ArticleFilter{CategoryID: &food.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a3.ID, got[0].ID)
	})

	t.Run("search is case-insensitive over title", func(t *testing.T) {
		got, err := repo.ListArticles(ctx, simpleblog.ArticleFilter{Search: "norway"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a1.ID, got[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		limit, offset := 1, 1
		got, err := repo.ListArticles(ctx, simpleblog.ArticleFilter{Limit: &limit, Offset: &offset})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a2.ID, got[0].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		offset := 10
		got, err := repo.ListArticles(ctx, simpleblog.ArticleFilter{Offset: &offset})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("count matches filter", func(t *testing.T) {
		count, err := repo.CountArticles(ctx, simpleblog.ArticleFilter{Status: &draft})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestListRelatedArticles(t *testing.T) {
	repo := New()
	ctx := context.Background()

	travel := newCategory("Travel", "travel")
	food := newCategory("Food", "food")
	require.NoError(t, repo.CreateCategory(ctx, travel))
	require.NoError(t, repo.CreateCategory(ctx, food))

	base := time.Now().UTC()
	published := simpleblog.ArticleStatusPublished

	self := newArticle(travel.ID, "Self", "self", published, base)
	require.NoError(t, repo.CreateArticle(ctx, self))

	var siblings []*simpleblog.Article
	for i := 0; i < 3; i++ {
		a := newArticle(travel.ID, fmt.Sprintf("Sibling %d", i), fmt.Sprintf("sibling-%d", i), published, base.Add(time.Duration(i+1)*time.Minute))
		require.NoError(t, repo.CreateArticle(ctx, a))
		siblings = append(siblings, a)
	}
	draftSibling := newArticle(travel.ID, "Hidden", "hidden", simpleblog.ArticleStatusDraft, base.Add(10*time.Minute))
	require.NoError(t, repo.CreateArticle(ctx, draftSibling))
	other := newArticle(food.ID, "Other", "other", published, base.Add(11*time.Minute))
	require.NoError(t, repo.CreateArticle(ctx, other))

	got, err := repo.ListRelatedArticles(ctx, simpleblog.RelatedArticlesParams{
		CategoryID: travel.ID,
		ExcludeID:  self.ID,
		Limit:      2,
		Status:     &published,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, siblings[2].ID, got[0].ID, "newest sibling first")
	assert.Equal(t, siblings[1].ID, got[1].ID)
}

func TestCategoryCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()

	category := newCategory("Travel", "travel")
	require.NoError(t, repo.CreateCategory(ctx, category))

	dup := newCategory("Travel Again", "travel")
	assert.ErrorIs(t, repo.CreateCategory(ctx, dup), simpleblog.ErrDuplicateSlug)

	got, err := repo.GetCategoryBySlug(ctx, "travel")
	require.NoError(t, err)
	assert.Equal(t, category.ID, got.ID)

	category.Name = "World Travel"
	category.Slug = "world-travel"
	require.NoError(t, repo.UpdateCategory(ctx, category))

	_, err = repo.GetCategoryBySlug(ctx, "travel")
	assert.ErrorIs(t, err, simpleblog.ErrCategoryNotFound)

	require.NoError(t, repo.DeleteCategory(ctx, category.ID))
	_, err = repo.GetCategory(ctx, category.ID)
	assert.ErrorIs(t, err, simpleblog.ErrCategoryNotFound)
}

func TestDeleteCategoryWithArticles(t *testing.T) {
	repo := New()
	ctx := context.Background()

	category := newCategory("Travel", "travel")
	require.NoError(t, repo.CreateCategory(ctx, category))

	article := newArticle(category.ID, "Trip", "trip", simpleblog.ArticleStatusDraft, time.Now().UTC())
	require.NoError(t, repo.CreateArticle(ctx, article))

	assert.ErrorIs(t, repo.DeleteCategory(ctx, category.ID), simpleblog.ErrCategoryInUse)

	require.NoError(t, repo.DeleteArticle(ctx, article.ID))
	require.NoError(t, repo.DeleteCategory(ctx, category.ID))
}

func TestListCategoriesSortedWithCounts(t *testing.T) {
	repo := New()
	ctx := context.Background()

	travel := newCategory("Travel", "travel")
	food := newCategory("Food", "food")
	require.NoError(t, repo.CreateCategory(ctx, travel))
	require.NoError(t, repo.CreateCategory(ctx, food))

	base := time.Now().UTC()
	for i := 0; i < 2; i++ {
		a := newArticle(travel.ID, fmt.Sprintf("Trip %d", i), fmt.Sprintf("trip-%d", i), simpleblog.ArticleStatusDraft, base)
		require.NoError(t, repo.CreateArticle(ctx, a))
	}

	got, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Food", got[0].Name)
	assert.Equal(t, int64(0), got[0].ArticleCount)
	assert.Equal(t, "Travel", got[1].Name)
	assert.Equal(t, int64(2), got[1].ArticleCount)

	count, err := repo.CountArticlesByCategory(ctx, travel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestClonesIsolateCallers(t *testing.T) {
	repo := New()
	ctx := context.Background()

	category := newCategory("Travel", "travel")
	require.NoError(t, repo.CreateCategory(ctx, category))

	article := newArticle(category.ID, "Trip", "trip", simpleblog.ArticleStatusDraft, time.Now().UTC())
	article.BlogImage = &simpleblog.ImageRecord{PublicID: "blog/x", URL: "memory://blog/x"}
	require.NoError(t, repo.CreateArticle(ctx, article))

	got, err := repo.GetArticle(ctx, article.ID)
	require.NoError(t, err)

	// Mutating a returned article must not leak into the store.
	got.Title = "Mutated"
	got.Tags[0] = "mutated"
	got.BlogImage.PublicID = "mutated"

	fresh, err := repo.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", fresh.Title)
	assert.Equal(t, "tag", fresh.Tags[0])
	assert.Equal(t, "blog/x", fresh.BlogImage.PublicID)
}
