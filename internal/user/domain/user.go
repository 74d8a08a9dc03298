package domain

import (
	"errors"
	"time"
)

// User is the core user entity. PasswordHash is never exposed outside the
// auth service; projections use Profile.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string // optional
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is carried on tokens as data; enforcement happens in the consuming
// authorization layer.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Profile is the public projection of a user returned by Register.
type Profile struct {
	ID    string
	Email string
	Name  string
}

// Validate validates the user for persistence. Returns an error describing
// the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// Profile returns the public projection of the user.
func (u *User) Profile() *Profile {
	return &Profile{ID: u.ID, Email: u.Email, Name: u.Name}
}
