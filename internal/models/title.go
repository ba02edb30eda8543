package models

import (
	"time"
)

// Title is a cataloged work: film, book, album. It carries at most one
// category and any number of genres. Removing the category nulls the
// reference; removing the title cascades to its reviews.
type Title struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Year        *int   `json:"year"`
	Description string `json:"description"`

	CategoryID *uint     `gorm:"index" json:"-"`
	Category   *Category `json:"category,omitempty"`
	Genres     []Genre   `gorm:"many2many:title_genres" json:"genres"`

	// Rating is not persisted; it is the mean of associated review scores,
	// computed at query time and nil when the title has no reviews.
	Rating *float64 `gorm:"-" json:"rating,omitempty"`

	Reviews []Review `gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
