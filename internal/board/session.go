package board

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownDeal is returned when the dragged deal is not part of
	// the session's current view.
	ErrUnknownDeal = errors.New("board: unknown deal")
	// ErrUnknownTarget is returned when the drop target matches neither
	// a deal nor a stage in the current view.
	ErrUnknownTarget = errors.New("board: unknown drop target")
	// ErrClosed is returned for gestures dispatched after Close.
	ErrClosed = errors.New("board: session closed")
)

// Session is one user's live board. It holds only that session's
// speculative view; no state is shared across sessions, so two browsers
// racing over the same deal simply both settle on whatever the store
// ends up holding.
type Session struct {
	userID string
	setter StageSetter
	loader SnapshotLoader
	logger *logrus.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	state   State
	view    Snapshot // speculative while pending, confirmed otherwise
	pending *Move
	closed  bool
}

// NewSession loads the initial snapshot and returns a settled session.
func NewSession(ctx context.Context, userID string, setter StageSetter, loader SnapshotLoader, logger *logrus.Logger) (*Session, error) {
	snap, err := loader.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := &Session{
		userID: userID,
		setter: setter,
		loader: loader,
		logger: logger,
		state:  StateSettled,
		view:   snap.clone(),
	}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// State reports whether a move is currently in flight.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns a copy of the current local view. While a move is
// pending this includes the speculative placement.
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.clone()
}

// Pending returns the in-flight move, if any.
func (s *Session) Pending() *Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	m := *s.pending
	return &m
}

// Refresh replaces the local view with a fresh server read. It waits
// for any in-flight move to settle first.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	for s.state == StatePending && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	snap, err := s.loader.Snapshot(ctx, s.userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateSettled {
		s.view = snap.clone()
	}
	s.mu.Unlock()
	return nil
}

// Close wakes all waiting gestures; they return ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Drop handles one drag gesture: the deal was released over targetID,
// which is either another deal (resolved to that deal's current stage)
// or a stage column. A gesture arriving while another move is in
// flight waits for settlement and is then resolved against the settled
// view, never against stale speculative state.
//
// Cross-stage drops apply speculatively, send exactly one SetStage
// call, and settle on a fresh server snapshot whether the call
// succeeded or not. A timeout on the write is a failure like any
// other; once the store accepted the write it is not retracted, and
// the re-read will show the result either way.
func (s *Session) Drop(ctx context.Context, dealID, targetID string) (Outcome, error) {
	s.mu.Lock()
	for s.state == StatePending && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		s.mu.Unlock()
		return OutcomeNoop, ErrClosed
	}

	deal := s.view.deal(dealID)
	if deal == nil {
		s.mu.Unlock()
		return OutcomeNoop, ErrUnknownDeal
	}
	toStageID, ok := s.resolveTargetLocked(targetID)
	if !ok {
		s.mu.Unlock()
		return OutcomeNoop, ErrUnknownTarget
	}
	if toStageID == deal.StageID {
		// Dropped onto its own stage (or onto itself, or reordered
		// within the column). Intra-stage order is not persisted, so
		// nothing is sent.
		s.mu.Unlock()
		return OutcomeNoop, nil
	}

	move := Move{DealID: dealID, FromStageID: deal.StageID, ToStageID: toStageID}
	s.pending = &move
	s.state = StatePending
	deal.StageID = toStageID // speculative
	s.mu.Unlock()

	_, setErr := s.setter.SetStage(ctx, move.DealID, move.ToStageID, s.userID)

	snap, readErr := s.loader.Snapshot(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.state = StateSettled
	defer s.cond.Broadcast()

	switch {
	case readErr == nil:
		// The server is authoritative; it may also reflect concurrent
		// edits from other sessions.
		s.view = snap.clone()
	case setErr != nil:
		// Write failed and the re-read did too: at minimum the
		// speculative placement must not survive.
		if d := s.view.deal(move.DealID); d != nil && d.StageID == move.ToStageID {
			d.StageID = move.FromStageID
		}
		if s.logger != nil {
			s.logger.WithError(readErr).WithField("deal_id", move.DealID).Warn("board re-read failed, reverted locally")
		}
	default:
		// Write confirmed but the re-read failed; the speculative view
		// already matches the store for this deal, keep it as baseline.
		if s.logger != nil {
			s.logger.WithError(readErr).WithField("deal_id", move.DealID).Warn("board re-read failed after confirmed move")
		}
	}

	if setErr != nil {
		return OutcomeReverted, setErr
	}
	return OutcomeConfirmed, nil
}

// resolveTargetLocked maps a drop target to a stage id: a deal id
// resolves to that deal's current stage, otherwise the id must name a
// stage column.
func (s *Session) resolveTargetLocked(targetID string) (string, bool) {
	if d := s.view.deal(targetID); d != nil {
		return d.StageID, true
	}
	if st := s.view.stage(targetID); st != nil {
		return st.ID, true
	}
	return "", false
}
