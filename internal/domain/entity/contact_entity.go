package entity

import (
	"time"
)

// Contact is a qualified person that can own deals. Email acts as the
// natural dedup key; LeadID is set when the contact came out of a
// lead conversion.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    string
	Notes     string
	AvatarURL string
	UserID    string
	LeadID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
