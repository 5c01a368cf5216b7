package model

import (
	"time"
)

// User represents a registered ReWear user
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	Role         string     `json:"role" db:"role"`
	Picture      string     `json:"picture,omitempty" db:"picture"`
	Location     string     `json:"location,omitempty" db:"location"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// UserCreate represents data needed to register a user
type UserCreate struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Location string `json:"location,omitempty"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the response after successful authentication
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// ProfileUpdate represents editable profile fields
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Picture  *string `json:"picture,omitempty"`
	Location *string `json:"location,omitempty"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
