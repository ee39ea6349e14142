package models

import "time"

// Point balance bounds. The balance is clamped into this range on every
// mutation and must never be observed outside it.
const (
	PointMin = 0
	PointMax = 1800
)

// CheckinPoint is the current point balance of a user. One row per user,
// created lazily on the first accrual or penalty.
type CheckinPoint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Point     int       `gorm:"not null;default:0" json:"point"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
