package entity

import (
	"time"
)

// User is the account owner. Leads, contacts and deals all hang off a user.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
