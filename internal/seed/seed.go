// Package seed populates the database with demo catalog data for
// development and testing.
package seed

import (
	"fmt"
	"log"

	"reviewhub/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumTitles    int
	MaxReviews   int // per title
	MinTitleYear int // 0 means the default bound
	ShouldClean  bool
}

var categories = []models.Category{
	{Name: "Movies", Slug: "movies"},
	{Name: "Books", Slug: "books"},
	{Name: "Music", Slug: "music"},
	{Name: "Television", Slug: "tv"},
	{Name: "Games", Slug: "games"},
}

var genres = []models.Genre{
	{Name: "Drama", Slug: "drama"},
	{Name: "Comedy", Slug: "comedy"},
	{Name: "Thriller", Slug: "thriller"},
	{Name: "Science Fiction", Slug: "sci-fi"},
	{Name: "Fantasy", Slug: "fantasy"},
	{Name: "Horror", Slug: "horror"},
	{Name: "Documentary", Slug: "documentary"},
	{Name: "Romance", Slug: "romance"},
	{Name: "Rock", Slug: "rock"},
	{Name: "Jazz", Slug: "jazz"},
	{Name: "Classical", Slug: "classical"},
	{Name: "Indie", Slug: "indie"},
}

// Seed populates the database with demo data.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding database with %d users and %d titles...", opts.NumUsers, opts.NumTitles)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts.MinTitleYear)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	cats, gens, err := f.EnsureCatalog(categories, genres)
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	log.Printf("✓ %d categories, %d genres available", len(cats), len(gens))

	titles, err := f.CreateTitles(opts.NumTitles, cats, gens)
	if err != nil {
		return fmt.Errorf("failed to create titles: %w", err)
	}
	log.Printf("✓ %d titles created", len(titles))

	reviews, err := f.CreateReviews(titles, users, opts.MaxReviews)
	if err != nil {
		return fmt.Errorf("failed to create reviews: %w", err)
	}
	log.Printf("✓ %d reviews created", len(reviews))

	comments, err := f.CreateComments(reviews, users)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", len(comments))

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, reviews, title_genres, titles, genres, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
