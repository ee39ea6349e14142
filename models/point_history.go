package models

import "time"

// Point history entry types.
const (
	PointIn     = "in"     // accrual from a check-in
	PointOut    = "out"    // penalty from a missed window
	PointRedeem = "redeem" // spent on a reward
)

// CheckinSnapshot is the denormalized check-in copy embedded in a point
// history entry of type "in".
type CheckinSnapshot struct {
	CheckinAt *time.Time `json:"checkinAt,omitempty"`
	Type      string     `gorm:"size:16" json:"type,omitempty"`
}

// PointHistory is the append-only audit trail of point deltas. Rows are
// never mutated or deleted.
type PointHistory struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"userId"`
	Point     int             `gorm:"not null" json:"point"`
	Type      string          `gorm:"size:16;not null" json:"type"`
	Checkin   CheckinSnapshot `gorm:"embedded;embeddedPrefix:checkin_" json:"checkin"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
