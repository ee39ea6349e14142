package models

import "time"

// Ekagi content types.
const (
	EkagiVideo   = "video"
	EkagiArticle = "article"
)

// Ekagi is an educational gallery entry, either an embedded video or an
// HTML article. Article content is sanitized before storage.
type Ekagi struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Type          string    `gorm:"size:16;not null" json:"type"`
	ThumbnailURL  string    `gorm:"size:512" json:"thumbnailUrl"`
	ThumbnailPath string    `gorm:"size:1024" json:"-"`
	Content       string    `gorm:"type:text" json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
