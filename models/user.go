package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. HealthCare accounts manage rewards, ekagi content and the
// admin check-in endpoints.
const (
	RoleUser       = "user"
	RoleHealthCare = "health_care"
)

// Parent holds the responsible parent's contact data, embedded in User.
type Parent struct {
	FirstName   string     `gorm:"size:64" json:"firstName"`
	LastName    string     `gorm:"size:64" json:"lastName"`
	Relation    string     `gorm:"size:8" json:"relation"` // ayah | ibu
	BirthDate   *time.Time `json:"birthDate"`
	PhoneNumber string     `gorm:"size:32" json:"phoneNumber"`
}

// User represents a child account registered by a parent. Passwords are
// stored as bcrypt hashes only.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	FirstName     string     `gorm:"size:64;not null" json:"firstName"`
	LastName      string     `gorm:"size:64" json:"lastName"`
	ParentEmail   string     `gorm:"size:255;uniqueIndex;not null" json:"parentEmail"`
	PasswordHash  string     `gorm:"size:255" json:"-"`
	BirthDate     *time.Time `json:"birthDate"`
	Image         string     `gorm:"size:512" json:"image"`
	Sex           string     `gorm:"size:1" json:"sex"` // L | P
	Role          string     `gorm:"size:16;default:user" json:"role"`
	EmailVerified bool       `gorm:"default:false" json:"emailVerified"`

	// BPS region codes of the registered address, used by the regional
	// check-in report.
	ProvinceID    string `gorm:"size:16;index" json:"provinceId"`
	CityID        string `gorm:"size:16;index" json:"cityId"`
	DistrictID    string `gorm:"size:16;index" json:"districtId"`
	SubdistrictID string `gorm:"size:16;index" json:"subdistrictId"`

	Parent Parent `gorm:"embedded;embeddedPrefix:parent_" json:"parent"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
