package repository

import (
	"context"

	"reviewhub/internal/models"
)

// CatalogResolver bundles genre and category lookups behind the slug
// resolution contract the serialization layer expects.
type CatalogResolver struct {
	Genres     GenreRepository
	Categories CategoryRepository
}

func (r CatalogResolver) GenresBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	return r.Genres.GetBySlugs(ctx, slugs)
}

func (r CatalogResolver) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.Categories.GetBySlug(ctx, slug)
}
