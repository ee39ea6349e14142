package models

import "time"

// DentalTracker records one uploaded dental photo for a user. The file
// itself lives under the static uploads directory; FilePath is the local
// path, URL the public one.
type DentalTracker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	FilePath  string    `gorm:"size:1024;not null" json:"-"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
