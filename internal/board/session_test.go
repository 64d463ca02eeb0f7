package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// fakeStore is both the stage setter and the snapshot loader. It holds
// the authoritative deal placement and can be told to fail either call.
type fakeStore struct {
	mu     sync.Mutex
	stages []entity.PipelineStage
	deals  map[string]*entity.Deal

	setErr   error
	loadErr  error
	setGate  chan struct{} // when non-nil, SetStage blocks until closed
	setCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stages: []entity.PipelineStage{
			{ID: "stage-new", Name: "New", SortOrder: 1},
			{ID: "stage-qualified", Name: "Qualified", SortOrder: 2},
			{ID: "stage-won", Name: "Won", SortOrder: 3},
		},
		deals: map[string]*entity.Deal{
			"deal-1": {ID: "deal-1", Title: "Pilot", StageID: "stage-new", UserID: "user-1"},
			"deal-2": {ID: "deal-2", Title: "Renewal", StageID: "stage-qualified", UserID: "user-1"},
		},
	}
}

func (f *fakeStore) SetStage(_ context.Context, dealID, targetStageID, _ string) (*entity.Deal, error) {
	f.mu.Lock()
	gate := f.setGate
	f.setCalls++
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return nil, f.setErr
	}
	d, ok := f.deals[dealID]
	if !ok {
		return nil, errors.New("no such deal")
	}
	d.StageID = targetStageID
	cp := *d
	return &cp, nil
}

func (f *fakeStore) Snapshot(_ context.Context, _ string) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	snap := &Snapshot{Stages: make([]entity.PipelineStage, len(f.stages))}
	copy(snap.Stages, f.stages)
	for _, d := range f.deals {
		snap.Deals = append(snap.Deals, *d)
	}
	return snap, nil
}

func (f *fakeStore) stageOf(t *testing.T, dealID string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deals[dealID]
	require.True(t, ok)
	return d.StageID
}

func newTestSession(t *testing.T, store *fakeStore) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), "user-1", store, store, nil)
	require.NoError(t, err)
	return s
}

func viewStage(t *testing.T, s *Session, dealID string) string {
	t.Helper()
	v := s.View()
	d := v.deal(dealID)
	require.NotNil(t, d)
	return d.StageID
}

func TestDropCrossStageConfirmed(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	out, err := s.Drop(context.Background(), "deal-1", "stage-won")
	require.NoError(t, err)
	require.Equal(t, OutcomeConfirmed, out)

	require.Equal(t, "stage-won", store.stageOf(t, "deal-1"))
	require.Equal(t, "stage-won", viewStage(t, s, "deal-1"))
	require.Equal(t, StateSettled, s.State())
	require.Nil(t, s.Pending())
}

func TestDropOntoOwnStageIsNoop(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	out, err := s.Drop(context.Background(), "deal-1", "stage-new")
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, out)
	require.Zero(t, store.setCalls)
}

func TestDropOntoItselfIsNoop(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	out, err := s.Drop(context.Background(), "deal-1", "deal-1")
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, out)
	require.Zero(t, store.setCalls)
}

func TestDropOntoDealResolvesToItsStage(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	// Releasing deal-1 over deal-2 means "move into deal-2's column".
	out, err := s.Drop(context.Background(), "deal-1", "deal-2")
	require.NoError(t, err)
	require.Equal(t, OutcomeConfirmed, out)
	require.Equal(t, "stage-qualified", store.stageOf(t, "deal-1"))
}

func TestDropUnknownDealAndTarget(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	_, err := s.Drop(context.Background(), "deal-x", "stage-won")
	require.ErrorIs(t, err, ErrUnknownDeal)

	_, err = s.Drop(context.Background(), "deal-1", "nowhere")
	require.ErrorIs(t, err, ErrUnknownTarget)
	require.Zero(t, store.setCalls)
}

func TestDropFailedWriteRevertsToServerState(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	store.mu.Lock()
	store.setErr = errors.New("write rejected")
	store.mu.Unlock()

	out, err := s.Drop(context.Background(), "deal-1", "stage-won")
	require.Error(t, err)
	require.Equal(t, OutcomeReverted, out)

	// The speculative placement did not survive settlement.
	require.Equal(t, "stage-new", store.stageOf(t, "deal-1"))
	require.Equal(t, "stage-new", viewStage(t, s, "deal-1"))
	require.Equal(t, StateSettled, s.State())
}

func TestDropFailedWriteAndFailedRereadRevertsLocally(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	store.mu.Lock()
	store.setErr = errors.New("write rejected")
	store.loadErr = errors.New("read failed")
	store.mu.Unlock()

	out, err := s.Drop(context.Background(), "deal-1", "stage-won")
	require.Error(t, err)
	require.Equal(t, OutcomeReverted, out)

	// Even without a server read the local view rolled the move back.
	require.Equal(t, "stage-new", viewStage(t, s, "deal-1"))
	require.Equal(t, StateSettled, s.State())
}

func TestDropConfirmedWriteWithFailedRereadKeepsPlacement(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	store.mu.Lock()
	store.loadErr = errors.New("read failed")
	store.mu.Unlock()

	out, err := s.Drop(context.Background(), "deal-1", "stage-won")
	require.NoError(t, err)
	require.Equal(t, OutcomeConfirmed, out)

	// The write went through, so the speculative view is the best
	// available baseline.
	require.Equal(t, "stage-won", viewStage(t, s, "deal-1"))
	require.Equal(t, StateSettled, s.State())
}

func TestSecondDropWaitsForSettlement(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	gate := make(chan struct{})
	store.mu.Lock()
	store.setGate = gate
	store.mu.Unlock()

	first := make(chan error, 1)
	go func() {
		_, err := s.Drop(context.Background(), "deal-1", "stage-won")
		first <- err
	}()

	// Wait until the first gesture is in flight.
	require.Eventually(t, func() bool {
		return s.State() == StatePending
	}, time.Second, 5*time.Millisecond)

	// The queued gesture resolves against the settled view, not the
	// speculative one: dropping deal-2 onto deal-1 must land in
	// stage-won, deal-1's stage after settlement.
	second := make(chan Outcome, 1)
	go func() {
		out, err := s.Drop(context.Background(), "deal-2", "deal-1")
		require.NoError(t, err)
		second <- out
	}()

	// Let the first write finish.
	store.mu.Lock()
	store.setGate = nil
	store.mu.Unlock()
	close(gate)

	require.NoError(t, <-first)
	require.Equal(t, OutcomeConfirmed, <-second)

	require.Equal(t, "stage-won", store.stageOf(t, "deal-1"))
	require.Equal(t, "stage-won", store.stageOf(t, "deal-2"))
	require.Equal(t, StateSettled, s.State())
}

func TestRefreshPicksUpRemoteChanges(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	// Another session moved the deal.
	store.mu.Lock()
	store.deals["deal-1"].StageID = "stage-qualified"
	store.mu.Unlock()

	require.NoError(t, s.Refresh(context.Background()))
	require.Equal(t, "stage-qualified", viewStage(t, s, "deal-1"))
}

func TestClosedSessionRejectsGestures(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)
	s.Close()

	_, err := s.Drop(context.Background(), "deal-1", "stage-won")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Refresh(context.Background()), ErrClosed)
}

func TestCloseWakesWaitingGesture(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(t, store)

	gate := make(chan struct{})
	store.mu.Lock()
	store.setGate = gate
	store.mu.Unlock()

	go func() {
		_, _ = s.Drop(context.Background(), "deal-1", "stage-won")
	}()
	require.Eventually(t, func() bool {
		return s.State() == StatePending
	}, time.Second, 5*time.Millisecond)

	waiting := make(chan error, 1)
	go func() {
		_, err := s.Drop(context.Background(), "deal-2", "stage-won")
		waiting <- err
	}()

	// Give the second gesture a moment to block, then close the session.
	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case err := <-waiting:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("waiting gesture was not woken by Close")
	}

	close(gate)
}
