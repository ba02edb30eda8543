package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateYear(t *testing.T) {
	current := time.Now().Year()

	assert.NoError(t, ValidateYear(current, 1800))
	assert.NoError(t, ValidateYear(1800, 1800))
	assert.Error(t, ValidateYear(current+1, 1800))
	assert.Error(t, ValidateYear(1799, 1800))

	// The lower bound is whatever the caller configures.
	assert.NoError(t, ValidateYear(1700, 1500))
	assert.Error(t, ValidateYear(1950, 2000))
}

func TestValidateScore(t *testing.T) {
	for score := 1; score <= 10; score++ {
		assert.NoError(t, ValidateScore(score))
	}
	assert.Error(t, ValidateScore(0))
	assert.Error(t, ValidateScore(11))
	assert.Error(t, ValidateScore(-5))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.domain.org",
		"UPPER@EXAMPLE.COM",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@tld",
		"user @example.com",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"movies", "sci-fi", "top_10", "a", "best-of-2020"}
	for _, slug := range valid {
		assert.NoError(t, ValidateSlug(slug), slug)
	}

	invalid := []string{
		"",
		"Upper",
		"has space",
		"-leading",
		"trailing-",
		"double--dash",
		"emoji🎬",
		strings.Repeat("x", 201),
	}
	for _, slug := range invalid {
		assert.Error(t, ValidateSlug(slug), slug)
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "user.name", "user@example.com", "under_score", "with+plus"}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), name)
	}

	invalid := []string{"", "ab", "has space", "semi;colon", strings.Repeat("u", 255)}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), name)
	}
}
