package models

import (
	"time"
)

// DateLayout is the wire format of birthdate and event_date.
const DateLayout = "2006-01-02"

// Profile is a presentable identity card. A user may own several.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Title       string    `gorm:"size:100" json:"title"`
	Description string    `gorm:"size:1000" json:"description,omitempty"`
	AKA         string    `gorm:"size:100" json:"aka,omitempty"`
	Hometown    string    `gorm:"size:100" json:"hometown,omitempty"`
	Birthdate   string    `gorm:"size:10" json:"birthdate,omitempty"` // YYYY-MM-DD
	Hobby       string    `gorm:"size:255" json:"hobby,omitempty"`
	Comment     string    `gorm:"size:1000" json:"comment,omitempty"`
	IconURL     string    `gorm:"size:500" json:"icon_url,omitempty"`
	// Options are free label/value pairs shown under the main fields.
	Options []OptionField `gorm:"foreignKey:ProfileID" json:"option_profiles,omitempty"`
	// Links are ordered external links (SNS accounts, sites).
	Links []Link `gorm:"foreignKey:ProfileID" json:"links,omitempty"`
}

// GetUserID returns the owning user. Implements policy.Ownable.
func (p *Profile) GetUserID() uint { return p.UserID }

// OptionField is a custom label/value pair on a profile.
type OptionField struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProfileID uint   `gorm:"index;not null" json:"profile_id"`
	Position  int    `gorm:"not null;default:0" json:"position"`
	Title     string `gorm:"size:100;not null" json:"title"`
	Content   string `gorm:"size:1000" json:"content"`
}

// TableName keeps the historical table name.
func (OptionField) TableName() string { return "option_profiles" }

// Link is an external link shown on a profile.
type Link struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProfileID   uint   `gorm:"index;not null" json:"profile_id"`
	Position    int    `gorm:"not null;default:0" json:"position"`
	Title       string `gorm:"size:100;not null" json:"title"`
	URL         string `gorm:"size:500;not null" json:"url"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	ImageURL    string `gorm:"size:500" json:"image_url,omitempty"`
}

// ProfileInput is the body of POST /api/profiles and PUT /api/profiles/{id}.
// On update, empty fields are left untouched.
type ProfileInput struct {
	DisplayName string        `json:"display_name"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	AKA         string        `json:"aka,omitempty"`
	Hometown    string        `json:"hometown,omitempty"`
	Birthdate   string        `json:"birthdate,omitempty"`
	Hobby       string        `json:"hobby,omitempty"`
	Comment     string        `json:"comment,omitempty"`
	IconURL     string        `json:"icon_url,omitempty"`
	Options     []OptionField `json:"option_profiles,omitempty"`
	Links       []Link        `json:"links,omitempty"`
}

// ProfileListResponse is returned by GET /api/users/{userId}/profiles.
type ProfileListResponse struct {
	Profiles []Profile `json:"profiles"`
	Count    int       `json:"count"`
}
