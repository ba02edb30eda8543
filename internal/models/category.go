package models

import "time"

// Category is a single-valued classification tag for a Title. It is
// addressed externally by slug, never by numeric id.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"-"`
}
