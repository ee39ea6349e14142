package models

import "time"

// ConsecutiveCheckin tracks a user's current streak of settlement days with
// at least one check-in. Day is the running count, ConsecutiveDayRecord the
// high-water mark of past streaks, LastBreak the moment of the last reset.
// Only the daily settlement job mutates this row.
type ConsecutiveCheckin struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"uniqueIndex;not null" json:"userId"`
	Day                  int        `gorm:"not null;default:0" json:"day"`
	LastBreak            *time.Time `json:"lastBreak"`
	ConsecutiveDayRecord int        `gorm:"not null;default:0" json:"consecutiveDayRecord"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}
