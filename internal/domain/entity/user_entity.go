package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Email is unique and compared case-sensitively, exactly as stored.
// Identity fields never change after creation.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
