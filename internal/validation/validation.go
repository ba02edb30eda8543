// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"time"

	"reviewhub/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
)

// ValidateYear checks that a title's year of creation is plausible: not
// before minYear and not after the current year. The lower bound is
// configuration-driven rather than a guessed constant.
func ValidateYear(year, minYear int) error {
	current := time.Now().Year()
	if year > current {
		return fmt.Errorf("year %d is in the future", year)
	}
	if year < minYear {
		return fmt.Errorf("year %d is before the supported minimum %d", year, minYear)
	}
	return nil
}

// ValidateScore checks that a review score lies within the allowed range.
func ValidateScore(score int) error {
	if score < models.MinScore || score > models.MaxScore {
		return fmt.Errorf("score must be between %d and %d", models.MinScore, models.MaxScore)
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	return nil
}

// ValidateSlug checks that a slug is lowercase, URL-safe and non-empty.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > 200 {
		return fmt.Errorf("slug must not exceed 200 characters")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug can only contain lowercase letters, numbers, hyphens, and underscores")
	}
	return nil
}

// ValidateUsername checks if a username meets requirements. Usernames
// default to the account email, so the address characters are allowed.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 254 {
		return fmt.Errorf("username must not exceed 254 characters")
	}
	if !regexp.MustCompile(`^[a-zA-Z0-9_.@+\-]+$`).MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and @/./+/-/_ characters")
	}
	return nil
}
