package application

// In-memory repositories backing the service tests. They enforce the
// same guards as the Postgres implementations: unique contact email per
// user, one contact per lead, and a compare-and-set on lead conversion.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
)

type memStore struct {
	mu  sync.Mutex
	seq int

	leads    map[string]*entity.Lead
	contacts map[string]*entity.Contact
	deals    map[string]*entity.Deal
	stages   []entity.PipelineStage
	acts     []entity.ActivityLog

	stageWrites int // UpdateStage calls, for idempotence assertions
}

func newMemStore() *memStore {
	return &memStore{
		leads:    make(map[string]*entity.Lead),
		contacts: make(map[string]*entity.Contact),
		deals:    make(map[string]*entity.Deal),
	}
}

func (m *memStore) nextID() string {
	m.seq++
	return fmt.Sprintf("id-%04d", m.seq)
}

// leadRepo

type memLeadRepo struct{ s *memStore }

func (r *memLeadRepo) Create(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID()
	if l.Status == "" {
		l.Status = entity.LeadStatusNew
	}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	r.s.leads[l.ID] = &cp
	return nil
}

func (r *memLeadRepo) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLeadRepo) ListByUser(_ context.Context, userID string) ([]entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Lead
	for _, l := range r.s.leads {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memLeadRepo) Convert(_ context.Context, leadID string, c *entity.Contact) (*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.leads[leadID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	for _, ex := range r.s.contacts {
		if ex.LeadID != nil && *ex.LeadID == leadID {
			return nil, repo.ErrConflict
		}
		if ex.UserID == c.UserID && ex.Email == c.Email {
			return nil, repo.ErrConflict
		}
	}
	if l.Status == entity.LeadStatusConverted {
		return nil, repo.ErrConflict
	}

	c.ID = r.s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.contacts[c.ID] = &cp

	l.Status = entity.LeadStatusConverted
	l.UpdatedAt = time.Now()
	return c, nil
}

// contactRepo

type memContactRepo struct{ s *memStore }

func (r *memContactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.contacts {
		if ex.UserID == c.UserID && ex.Email == c.Email {
			return repo.ErrConflict
		}
	}
	c.ID = r.s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.contacts[c.ID] = &cp
	return nil
}

func (r *memContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contacts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memContactRepo) GetByEmail(_ context.Context, userID, email string) (*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contacts {
		if c.UserID == userID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memContactRepo) GetByLeadID(_ context.Context, leadID string) (*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contacts {
		if c.LeadID != nil && *c.LeadID == leadID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memContactRepo) ListByUser(_ context.Context, userID string) ([]entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Contact
	for _, c := range r.s.contacts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memContactRepo) Update(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[c.ID]; !ok {
		return repo.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	r.s.contacts[c.ID] = &cp
	return nil
}

func (r *memContactRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.contacts, id)
	return nil
}

// dealRepo

type memDealRepo struct{ s *memStore }

func (r *memDealRepo) Create(_ context.Context, d *entity.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.nextID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	r.s.deals[d.ID] = &cp
	return nil
}

func (r *memDealRepo) GetByID(_ context.Context, id string) (*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDealRepo) ListByUser(_ context.Context, userID string) ([]entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Deal
	for _, d := range r.s.deals {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDealRepo) ListByContact(_ context.Context, contactID string) ([]entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Deal
	for _, d := range r.s.deals {
		if d.ContactID == contactID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *memDealRepo) UpdateStage(_ context.Context, dealID, stageID string) (*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[dealID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	r.s.stageWrites++
	d.StageID = stageID
	d.UpdatedAt = time.Now()
	cp := *d
	return &cp, nil
}

func (r *memDealRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.deals[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.deals, id)
	return nil
}

// stageRepo

type memStageRepo struct{ s *memStore }

func (r *memStageRepo) GetByID(_ context.Context, id string) (*entity.PipelineStage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.stages {
		if st.ID == id {
			cp := st
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memStageRepo) List(_ context.Context) ([]entity.PipelineStage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.PipelineStage, len(r.s.stages))
	copy(out, r.s.stages)
	return out, nil
}

// activityRepo

type memActivityRepo struct{ s *memStore }

func (r *memActivityRepo) Create(_ context.Context, a *entity.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.nextID()
	a.CreatedAt = time.Now()
	r.s.acts = append(r.s.acts, *a)
	return nil
}

func (r *memActivityRepo) ListByUser(_ context.Context, userID string) ([]entity.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ActivityLog
	for _, a := range r.s.acts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

var (
	_ repo.LeadRepository     = (*memLeadRepo)(nil)
	_ repo.ContactRepository  = (*memContactRepo)(nil)
	_ repo.DealRepository     = (*memDealRepo)(nil)
	_ repo.StageRepository    = (*memStageRepo)(nil)
	_ repo.ActivityRepository = (*memActivityRepo)(nil)
)
