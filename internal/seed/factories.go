package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"reviewhub/internal/models"
	"reviewhub/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// defaultMinYear mirrors the API's default lower bound for title years.
const defaultMinYear = 1800

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db      *gorm.DB
	r       *rand.Rand
	minYear int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
// Generated and overridden title years are held to the same bounds the
// API enforces; pass minYear <= 0 to use the default.
func NewFactory(db *gorm.DB, minYear int) *Factory {
	if minYear <= 0 {
		minYear = defaultMinYear
	}
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano())), minYear: minYear}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Bio:       gofakeit.Sentence(10),
		Role:      models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUsers persists count sample users, the first one an admin and the
// second a moderator so every role is represented in demo data.
func (f *Factory) CreateUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		role := models.RoleUser
		switch i {
		case 0:
			role = models.RoleAdmin
		case 1:
			role = models.RoleModerator
		}
		user, err := f.CreateUser(func(u *models.User) { u.Role = role })
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

// EnsureCatalog upserts the fixed category and genre sets.
func (f *Factory) EnsureCatalog(cats []models.Category, gens []models.Genre) ([]models.Category, []models.Genre, error) {
	outCats := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		var got models.Category
		if err := f.db.Where(models.Category{Slug: c.Slug}).
			Attrs(models.Category{Name: c.Name}).
			FirstOrCreate(&got).Error; err != nil {
			return nil, nil, err
		}
		outCats = append(outCats, got)
	}

	outGens := make([]models.Genre, 0, len(gens))
	for _, g := range gens {
		var got models.Genre
		if err := f.db.Where(models.Genre{Slug: g.Slug}).
			Attrs(models.Genre{Name: g.Name}).
			FirstOrCreate(&got).Error; err != nil {
			return nil, nil, err
		}
		outGens = append(outGens, got)
	}
	return outCats, outGens, nil
}

// CreateTitle constructs and persists a sample title.
func (f *Factory) CreateTitle(cats []models.Category, gens []models.Genre, overrides ...func(*models.Title)) (*models.Title, error) {
	year := gofakeit.Number(1950, time.Now().Year())
	title := &models.Title{
		Name:        gofakeit.MovieName(),
		Year:        &year,
		Description: gofakeit.Paragraph(1, 3, 8, " "),
	}
	if len(cats) > 0 {
		cat := cats[f.r.Intn(len(cats))]
		title.CategoryID = &cat.ID
	}
	if len(gens) > 0 {
		n := f.r.Intn(3) + 1
		picked := make(map[uint]models.Genre, n)
		for len(picked) < n {
			g := gens[f.r.Intn(len(gens))]
			picked[g.ID] = g
		}
		for _, g := range picked {
			title.Genres = append(title.Genres, g)
		}
	}
	for _, override := range overrides {
		override(title)
	}
	if title.Year != nil {
		if err := validation.ValidateYear(*title.Year, f.minYear); err != nil {
			return nil, err
		}
	}
	if err := f.db.Create(title).Error; err != nil {
		return nil, err
	}
	return title, nil
}

// CreateTitles persists count sample titles spread over the catalog.
func (f *Factory) CreateTitles(count int, cats []models.Category, gens []models.Genre) ([]models.Title, error) {
	titles := make([]models.Title, 0, count)
	for i := 0; i < count; i++ {
		title, err := f.CreateTitle(cats, gens)
		if err != nil {
			return nil, err
		}
		titles = append(titles, *title)
	}
	return titles, nil
}

// CreateReview constructs and persists a review by the given author.
func (f *Factory) CreateReview(title *models.Title, author *models.User, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		Text:     gofakeit.Paragraph(1, 2, 10, " "),
		Score:    gofakeit.Number(models.MinScore, models.MaxScore),
		TitleID:  title.ID,
		AuthorID: author.ID,
	}
	for _, override := range overrides {
		override(review)
	}
	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateReviews gives each title up to maxPerTitle reviews, each from a
// distinct user so the one-review-per-author rule holds.
func (f *Factory) CreateReviews(titles []models.Title, users []models.User, maxPerTitle int) ([]models.Review, error) {
	if maxPerTitle <= 0 {
		maxPerTitle = 3
	}
	reviews := make([]models.Review, 0, len(titles)*maxPerTitle)
	for i := range titles {
		n := f.r.Intn(maxPerTitle + 1)
		if n > len(users) {
			n = len(users)
		}
		for _, idx := range f.r.Perm(len(users))[:n] {
			review, err := f.CreateReview(&titles[i], &users[idx])
			if err != nil {
				return nil, err
			}
			reviews = append(reviews, *review)
		}
	}
	return reviews, nil
}

// CreateComment constructs and persists a comment on the given review.
func (f *Factory) CreateComment(review *models.Review, author *models.User, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(12),
		ReviewID: review.ID,
		AuthorID: author.ID,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateComments sprinkles a handful of comments over the given reviews.
func (f *Factory) CreateComments(reviews []models.Review, users []models.User) ([]models.Comment, error) {
	comments := make([]models.Comment, 0, len(reviews)*2)
	for i := range reviews {
		n := f.r.Intn(3)
		for j := 0; j < n; j++ {
			author := users[f.r.Intn(len(users))]
			comment, err := f.CreateComment(&reviews[i], &author)
			if err != nil {
				return nil, err
			}
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}
