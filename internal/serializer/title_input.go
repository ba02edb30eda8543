package serializer

import (
	"context"
	"fmt"

	"reviewhub/internal/models"
)

// CatalogResolver resolves genre and category slugs against existing rows.
// It is satisfied by the repository layer.
type CatalogResolver interface {
	GenresBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// TitleInput is the write shape of a title: genres as a set of slugs,
// category as a single slug. Pointer fields distinguish "absent" from
// "set to zero" so the same shape serves create and partial update.
type TitleInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

// Apply resolves the input against the catalog and writes the provided
// fields onto t. An unknown genre or category slug is a validation error.
func (in *TitleInput) Apply(ctx context.Context, t *models.Title, resolver CatalogResolver) error {
	if in.Name != nil {
		if *in.Name == "" {
			return models.NewValidationError("name must not be empty")
		}
		t.Name = *in.Name
	}
	if in.Year != nil {
		t.Year = in.Year
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		if *in.Category == "" {
			t.CategoryID = nil
			t.Category = nil
		} else {
			cat, err := resolver.CategoryBySlug(ctx, *in.Category)
			if err != nil {
				return err
			}
			if cat == nil {
				return models.NewValidationError(fmt.Sprintf("unknown category slug %q", *in.Category))
			}
			t.CategoryID = &cat.ID
			t.Category = cat
		}
	}
	if in.Genre != nil {
		genres, err := resolver.GenresBySlugs(ctx, *in.Genre)
		if err != nil {
			return err
		}
		if len(genres) != len(dedupe(*in.Genre)) {
			return models.NewValidationError("one or more genre slugs are unknown")
		}
		t.Genres = genres
	}
	return nil
}

func dedupe(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	out := slugs[:0:0]
	for _, s := range slugs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
