package serializer

import (
	"context"
	"encoding/json"
	"testing"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DropsSecrets(t *testing.T) {
	u := &models.User{
		Username:         "alice",
		Email:            "alice@example.com",
		Role:             models.RoleModerator,
		ConfirmationCode: "$2a$10$hash",
	}

	raw, err := json.Marshal(User(u))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, "moderator", out["role"])
	assert.NotContains(t, out, "confirmation_code")
	assert.NotContains(t, out, "id")
}

func TestTitle_NestedRefsAndNulls(t *testing.T) {
	rating := 7.5
	year := 1972
	title := &models.Title{
		ID:     3,
		Name:   "Solaris",
		Year:   &year,
		Rating: &rating,
		Category: &models.Category{
			ID: 9, Name: "Movies", Slug: "movies",
		},
		Genres: []models.Genre{{ID: 4, Name: "Drama", Slug: "drama"}},
	}

	raw, err := json.Marshal(Title(title))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, map[string]any{"name": "Movies", "slug": "movies"}, out["category"])
	assert.Equal(t, []any{map[string]any{"name": "Drama", "slug": "drama"}}, out["genre"])
	assert.Equal(t, 7.5, out["rating"])

	// Absent associations render as JSON null / empty, never as omitted keys.
	bare := &models.Title{Name: "Bare"}
	raw, err = json.Marshal(Title(bare))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "rating")
	assert.Nil(t, out["rating"])
	assert.Nil(t, out["category"])
	assert.Nil(t, out["year"])
}

func TestReviewAndComment_AuthorAsUsername(t *testing.T) {
	review := &models.Review{
		ID:     1,
		Text:   "dense",
		Score:  8,
		Author: models.User{ID: 42, Username: "bob"},
	}
	assert.Equal(t, "bob", Review(review).Author)

	comment := &models.Comment{
		ID:     2,
		Text:   "agreed",
		Author: models.User{ID: 42, Username: "bob"},
	}
	assert.Equal(t, "bob", Comment(comment).Author)
}

// stubResolver backs TitleInput.Apply tests with a fixed catalog.
type stubResolver struct {
	genres     map[string]models.Genre
	categories map[string]models.Category
}

func (r stubResolver) GenresBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	var out []models.Genre
	seen := map[string]bool{}
	for _, s := range slugs {
		if g, ok := r.genres[s]; ok && !seen[s] {
			seen[s] = true
			out = append(out, g)
		}
	}
	return out, nil
}

func (r stubResolver) CategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	if c, ok := r.categories[slug]; ok {
		return &c, nil
	}
	return nil, nil
}

func testResolver() stubResolver {
	return stubResolver{
		genres: map[string]models.Genre{
			"drama":  {ID: 1, Name: "Drama", Slug: "drama"},
			"sci-fi": {ID: 2, Name: "Science Fiction", Slug: "sci-fi"},
		},
		categories: map[string]models.Category{
			"movies": {ID: 1, Name: "Movies", Slug: "movies"},
		},
	}
}

func strPtr(s string) *string { return &s }

func TestTitleInputApply_ResolvesSlugs(t *testing.T) {
	in := TitleInput{
		Name:     strPtr("Solaris"),
		Category: strPtr("movies"),
		Genre:    &[]string{"drama", "sci-fi", "drama"},
	}

	var title models.Title
	require.NoError(t, in.Apply(context.Background(), &title, testResolver()))

	assert.Equal(t, "Solaris", title.Name)
	require.NotNil(t, title.CategoryID)
	assert.EqualValues(t, 1, *title.CategoryID)
	assert.Len(t, title.Genres, 2, "duplicate slugs collapse")
}

func TestTitleInputApply_UnknownSlugs(t *testing.T) {
	var title models.Title

	in := TitleInput{Genre: &[]string{"polka"}}
	err := in.Apply(context.Background(), &title, testResolver())
	require.Error(t, err)

	in = TitleInput{Category: strPtr("podcasts")}
	err = in.Apply(context.Background(), &title, testResolver())
	require.Error(t, err)
}

func TestTitleInputApply_PartialAndClear(t *testing.T) {
	catID := uint(1)
	title := models.Title{
		Name:       "Solaris",
		CategoryID: &catID,
		Category:   &models.Category{ID: catID, Slug: "movies"},
	}

	// Absent fields leave the entity alone.
	in := TitleInput{Description: strPtr("re-release")}
	require.NoError(t, in.Apply(context.Background(), &title, testResolver()))
	assert.Equal(t, "Solaris", title.Name)
	assert.NotNil(t, title.CategoryID)
	assert.Equal(t, "re-release", title.Description)

	// An empty category string detaches the category.
	in = TitleInput{Category: strPtr("")}
	require.NoError(t, in.Apply(context.Background(), &title, testResolver()))
	assert.Nil(t, title.CategoryID)
	assert.Nil(t, title.Category)

	// An empty name is rejected.
	in = TitleInput{Name: strPtr("")}
	assert.Error(t, in.Apply(context.Background(), &title, testResolver()))
}
