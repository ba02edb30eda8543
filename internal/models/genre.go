package models

import "time"

// Genre is a multi-valued classification tag for a Title, same shape as
// Category: addressed by unique slug.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"-"`
}
