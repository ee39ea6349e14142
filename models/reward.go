package models

import "time"

// Reward is a redeemable catalog entry in the point store.
type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:1024;not null" json:"description"`
	Point       int       `gorm:"not null" json:"point"`
	Photo       string    `gorm:"size:512" json:"photo"`
	Stock       int       `gorm:"not null" json:"stock"`
	IsAvailable bool      `gorm:"default:true" json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RedemptionHistory logs one reward redemption by a user.
type RedemptionHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	RewardID  uint      `gorm:"index;not null" json:"rewardId"`
	Reward    Reward    `gorm:"foreignKey:RewardID" json:"reward"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
