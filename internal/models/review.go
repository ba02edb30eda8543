package models

import "time"

// Score bounds for a review.
const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's scored write-up of a Title. The unique index on
// (title_id, author_id) is the authoritative one-review-per-author guard;
// the handler-level pre-check only produces a friendlier error first.
type Review struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Text  string `gorm:"not null" json:"text"`
	Score int    `gorm:"not null" json:"score"`

	TitleID  uint `gorm:"not null;uniqueIndex:idx_reviews_title_author" json:"title_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_reviews_title_author" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`

	Comments []Comment `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`

	PubDate time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
}
