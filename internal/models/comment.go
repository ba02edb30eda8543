package models

import "time"

// Comment is a reply on a Review. Comments disappear with their review
// and with their author.
type Comment struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"not null" json:"text"`

	ReviewID uint `gorm:"not null;index" json:"review_id"`
	AuthorID uint `gorm:"not null" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author"`

	PubDate time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
}
