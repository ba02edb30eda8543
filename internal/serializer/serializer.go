// Package serializer converts domain entities to and from their wire
// representations. Response shapes never leak credential secrets or
// numeric catalog ids; genre and category always render as {name, slug}.
package serializer

import (
	"time"

	"reviewhub/internal/models"
)

// UserResponse is the wire shape of a user account.
type UserResponse struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Username  string          `json:"username"`
	Bio       string          `json:"bio"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
}

// User shapes a user for responses, dropping the credential secret.
func User(u *models.User) UserResponse {
	return UserResponse{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Bio:       u.Bio,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// Users shapes a slice of users.
func Users(us []models.User) []UserResponse {
	out := make([]UserResponse, len(us))
	for i := range us {
		out[i] = User(&us[i])
	}
	return out
}

// SlugRef is the nested rendering of a Genre or Category.
type SlugRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRef shapes a category as {name, slug}.
func CategoryRef(c *models.Category) *SlugRef {
	if c == nil {
		return nil
	}
	return &SlugRef{Name: c.Name, Slug: c.Slug}
}

// GenreRefs shapes genres as a list of {name, slug}.
func GenreRefs(gs []models.Genre) []SlugRef {
	out := make([]SlugRef, len(gs))
	for i, g := range gs {
		out[i] = SlugRef{Name: g.Name, Slug: g.Slug}
	}
	return out
}

// Categories shapes a slice of categories.
func Categories(cs []models.Category) []SlugRef {
	out := make([]SlugRef, len(cs))
	for i := range cs {
		out[i] = *CategoryRef(&cs[i])
	}
	return out
}

// Genres shapes a slice of genres.
func Genres(gs []models.Genre) []SlugRef {
	return GenreRefs(gs)
}

// TitleResponse is the read shape of a title, including the computed
// read-only rating.
type TitleResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Year        *int      `json:"year"`
	Description string    `json:"description"`
	Rating      *float64  `json:"rating"`
	Category    *SlugRef  `json:"category"`
	Genre       []SlugRef `json:"genre"`
}

// Title shapes a title for responses.
func Title(t *models.Title) TitleResponse {
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Rating:      t.Rating,
		Category:    CategoryRef(t.Category),
		Genre:       GenreRefs(t.Genres),
	}
}

// Titles shapes a slice of titles.
func Titles(ts []models.Title) []TitleResponse {
	out := make([]TitleResponse, len(ts))
	for i := range ts {
		out[i] = Title(&ts[i])
	}
	return out
}

// ReviewResponse is the wire shape of a review; author renders as the
// author's username, read-only.
type ReviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// Review shapes a review for responses.
func Review(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

// Reviews shapes a slice of reviews.
func Reviews(rs []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(rs))
	for i := range rs {
		out[i] = Review(&rs[i])
	}
	return out
}

// CommentResponse mirrors ReviewResponse's author rendering.
type CommentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// Comment shapes a comment for responses.
func Comment(cm *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  cm.Author.Username,
		PubDate: cm.PubDate,
	}
}

// Comments shapes a slice of comments.
func Comments(cms []models.Comment) []CommentResponse {
	out := make([]CommentResponse, len(cms))
	for i := range cms {
		out[i] = Comment(&cms[i])
	}
	return out
}
