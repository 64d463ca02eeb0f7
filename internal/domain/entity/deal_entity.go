package entity

import (
	"time"
)

// Deal is a sales opportunity tied to one contact and placed in exactly
// one pipeline stage. Value is a non-negative amount. There is no
// persisted ordering of deals inside a stage; listings come back in
// created_at desc order and the board treats intra-stage order as
// presentation-only.
type Deal struct {
	ID        string
	Title     string
	Value     float64
	Status    string
	StageID   string
	ContactID string
	UserID    string
	CloseDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated by list queries that join the related rows.
	Contact *Contact
	Stage   *PipelineStage
}
