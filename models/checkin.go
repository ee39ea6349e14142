package models

import (
	"time"

	"gorm.io/gorm"
)

// Check-in types. Each maps to its own daily time window.
const (
	CheckinMorning = "morning"
	CheckinEvening = "evening"
)

// Checkin is one recorded toothbrushing check-in. At most one row may exist
// per (user, type, local calendar day); CheckinDate carries the local day so
// the unique index can enforce that at the store, closing the
// read-then-insert race between concurrent requests.
type Checkin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null;uniqueIndex:uniq_checkin_day,priority:1" json:"userId"`
	Type        string    `gorm:"size:16;not null;uniqueIndex:uniq_checkin_day,priority:2" json:"type"`
	CheckinDate string    `gorm:"size:10;not null;uniqueIndex:uniq_checkin_day,priority:3" json:"-"`
	CheckinAt   time.Time `gorm:"index;not null" json:"checkinAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate fills CheckinAt and the derived local day column.
func (c *Checkin) BeforeCreate(tx *gorm.DB) error {
	if c.CheckinAt.IsZero() {
		c.CheckinAt = time.Now()
	}
	if c.CheckinDate == "" {
		c.CheckinDate = c.CheckinAt.Format("2006-01-02")
	}
	return nil
}
