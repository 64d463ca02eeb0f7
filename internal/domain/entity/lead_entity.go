package entity

import (
	"time"
)

// Lead statuses. A lead is never deleted by conversion; it is marked
// converted and linked from the contact that was created out of it.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
)

// Lead is a prospective contact entered manually or imported.
type Lead struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Source    string
	Status    string
	Notes     string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Converted reports whether the lead has already been turned into a contact.
func (l *Lead) Converted() bool {
	return l.Status == LeadStatusConverted
}
