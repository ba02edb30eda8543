// Command seed runs the database seeder for ReviewHub.
package main

import (
	"flag"
	"log"

	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numTitles := flag.Int("titles", 100, "Number of titles to create")
	maxReviews := flag.Int("reviews", 5, "Maximum reviews per title")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d titles, clean=%v\n", *numUsers, *numTitles, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		NumTitles:    *numTitles,
		MaxReviews:   *maxReviews,
		MinTitleYear: cfg.MinTitleYear,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
}
