package models

import (
	"time"
)

// User represents an account that owns one or more profiles.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Profiles  []Profile `gorm:"foreignKey:UserID" json:"-"`
}

// SignUpRequest is the body of POST /api/signup.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the body of POST /api/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
