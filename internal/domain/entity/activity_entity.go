package entity

import (
	"time"
)

// ActivityLog records a user-visible event against a deal or contact,
// e.g. "call", "email", "stage_changed", "lead_converted".
type ActivityLog struct {
	ID          string
	Type        string
	Description string
	DealID      *string
	ContactID   *string
	UserID      string
	CreatedAt   time.Time
}
