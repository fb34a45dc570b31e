// Package simpleblog provides a reusable library for blog content management
// with pluggable persistence, image storage, and render-cache backends.
//
// It exposes a single Service interface that orchestrates the publishing
// workflow for two entity types, Article and Category: validation, slug
// derivation, image lifecycle (upload-before-persist, best-effort cleanup of
// replaced images), referential integrity (a Category with dependent
// Articles cannot be deleted), and cache invalidation for rendered pages.
// Implementations of repositories (memory, Postgres), image stores (memory,
// S3-compatible), and render caches (noop, Redis) are provided under
// subpackages.
//
// # Visibility
//
// Read operations come in two flavors. Public reads (GetPublishedArticleBySlug,
// ListPublishedArticles, ListRelatedArticles) only ever see PUBLISHED
// articles; a draft's slug resolves to ErrArticleNotFound on the public
// path. Admin reads (GetArticle, ListArticles, GetDashboardStatistics) see
// all statuses.
//
// # Slugs
//
// Slugs are re-derived from the title (or category name) on every update.
// Renaming an entity therefore changes its public URL; no alias or redirect
// for the old slug is kept. Callers that need stable URLs must keep titles
// stable.
package simpleblog
