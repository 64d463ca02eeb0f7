// Package board implements the client-facing reconciliation protocol
// for the drag-and-drop deals board. A session shows drops
// optimistically, keeps exactly one stage write in flight, and always
// settles back onto a fresh server snapshot so the store stays the
// single source of truth.
package board

import (
	"context"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// State of a board session.
type State int

const (
	// StateSettled means the local view equals the last-known server state.
	StateSettled State = iota
	// StatePending means a speculative move is shown locally while its
	// stage write is in flight.
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "settled"
}

// Outcome of a drop gesture.
type Outcome int

const (
	// OutcomeNoop: the drop resolved to the deal's own stage; nothing was sent.
	OutcomeNoop Outcome = iota
	// OutcomeConfirmed: the stage write succeeded and the session
	// re-synced against the server.
	OutcomeConfirmed
	// OutcomeReverted: the stage write failed or timed out; the
	// speculative view was discarded in favor of the server state.
	OutcomeReverted
)

// Snapshot is one consistent server read of the board: stages in board
// order plus the session user's deals.
type Snapshot struct {
	Stages []entity.PipelineStage
	Deals  []entity.Deal
}

// Move describes one pending stage transition.
type Move struct {
	DealID      string
	FromStageID string
	ToStageID   string
}

// StageSetter performs the server-side stage transition.
type StageSetter interface {
	SetStage(ctx context.Context, dealID, targetStageID, callerUserID string) (*entity.Deal, error)
}

// SnapshotLoader reads the authoritative board state.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, userID string) (*Snapshot, error)
}

func (s *Snapshot) deal(id string) *entity.Deal {
	for i := range s.Deals {
		if s.Deals[i].ID == id {
			return &s.Deals[i]
		}
	}
	return nil
}

func (s *Snapshot) stage(id string) *entity.PipelineStage {
	for i := range s.Stages {
		if s.Stages[i].ID == id {
			return &s.Stages[i]
		}
	}
	return nil
}

func (s *Snapshot) clone() Snapshot {
	out := Snapshot{
		Stages: make([]entity.PipelineStage, len(s.Stages)),
		Deals:  make([]entity.Deal, len(s.Deals)),
	}
	copy(out.Stages, s.Stages)
	copy(out.Deals, s.Deals)
	return out
}
