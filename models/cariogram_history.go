package models

import "time"

// CariogramHistory stores one caries-risk calculation for a user: the def
// index (decayed + extracted + filled) and its scale label.
type CariogramHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Def       float64   `gorm:"not null" json:"def"`
	Result    string    `gorm:"size:32;not null" json:"result"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
