package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
	"github.com/salesloop/salesloop-api/pkg/validation"
)

// stubDealRepo holds deals keyed by id and counts stage writes.
type stubDealRepo struct {
	mu          sync.Mutex
	deals       map[string]*entity.Deal
	stageWrites int
}

func (r *stubDealRepo) Create(_ context.Context, d *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = "deal-created"
	r.deals[d.ID] = d
	return nil
}

func (r *stubDealRepo) GetByID(_ context.Context, id string) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubDealRepo) ListByUser(_ context.Context, userID string) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Deal
	for _, d := range r.deals {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDealRepo) ListByContact(_ context.Context, contactID string) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Deal
	for _, d := range r.deals {
		if d.ContactID == contactID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDealRepo) UpdateStage(_ context.Context, dealID, stageID string) (*entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deals[dealID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	r.stageWrites++
	d.StageID = stageID
	cp := *d
	return &cp, nil
}

func (r *stubDealRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.deals, id)
	return nil
}

type stubStageRepo struct{ stages []entity.PipelineStage }

func (r *stubStageRepo) GetByID(_ context.Context, id string) (*entity.PipelineStage, error) {
	for i := range r.stages {
		if r.stages[i].ID == id {
			return &r.stages[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *stubStageRepo) List(_ context.Context) ([]entity.PipelineStage, error) {
	return r.stages, nil
}

type stubContactRepo struct{ contacts map[string]*entity.Contact }

func (r *stubContactRepo) Create(context.Context, *entity.Contact) error { return nil }
func (r *stubContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return c, nil
}
func (r *stubContactRepo) GetByEmail(context.Context, string, string) (*entity.Contact, error) {
	return nil, repo.ErrNotFound
}
func (r *stubContactRepo) GetByLeadID(context.Context, string) (*entity.Contact, error) {
	return nil, repo.ErrNotFound
}
func (r *stubContactRepo) ListByUser(context.Context, string) ([]entity.Contact, error) {
	return nil, nil
}
func (r *stubContactRepo) Update(context.Context, *entity.Contact) error { return nil }
func (r *stubContactRepo) Delete(context.Context, string) error          { return nil }

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func newDealRouter(t *testing.T, userID string) (*gin.Engine, *stubDealRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	deals := &stubDealRepo{deals: map[string]*entity.Deal{
		"deal-1": {ID: "deal-1", Title: "Pilot", Value: 500, Status: "active", StageID: "stage-new", ContactID: "contact-1", UserID: "user-1"},
	}}
	stages := &stubStageRepo{stages: []entity.PipelineStage{
		{ID: "stage-new", Name: "New", SortOrder: 1},
		{ID: "stage-won", Name: "Won", SortOrder: 2},
	}}
	contacts := &stubContactRepo{contacts: map[string]*entity.Contact{
		"contact-1": {ID: "contact-1", Name: "Ada", UserID: "user-1"},
	}}

	svc := application.NewPipelineService(deals, stages, contacts, nil, nil, nil)
	h := NewDealHandler(svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", userID) })
	r.GET("/deals", h.List)
	r.POST("/deals", h.Create)
	r.PATCH("/deals/:id/stage", h.SetStage)
	r.DELETE("/deals/:id", h.Delete)
	return r, deals
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestSetStageEndpoint(t *testing.T) {
	r, deals := newDealRouter(t, "user-1")

	w, env := doJSON(t, r, http.MethodPatch, "/deals/deal-1/stage", gin.H{"stage_id": "stage-won"})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)
	require.Equal(t, "stage-won", env.Data["stage_id"])
	require.Equal(t, 1, deals.stageWrites)
}

func TestSetStageEndpointIsRetrySafe(t *testing.T) {
	r, deals := newDealRouter(t, "user-1")

	for i := 0; i < 3; i++ {
		w, env := doJSON(t, r, http.MethodPatch, "/deals/deal-1/stage", gin.H{"stage_id": "stage-won"})
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "stage-won", env.Data["stage_id"])
	}
	// Only the first delivery actually wrote.
	require.Equal(t, 1, deals.stageWrites)
}

func TestSetStageEndpointIgnoresExtraFields(t *testing.T) {
	r, _ := newDealRouter(t, "user-1")

	// A client resending the whole deal object cannot change anything
	// but the stage.
	w, env := doJSON(t, r, http.MethodPatch, "/deals/deal-1/stage", gin.H{
		"stage_id": "stage-won",
		"title":    "Hijacked",
		"value":    999999,
		"user_id":  "user-2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Pilot", env.Data["title"])
	require.EqualValues(t, 500, env.Data["value"])
	require.Equal(t, "user-1", env.Data["user_id"])
}

func TestSetStageEndpointErrors(t *testing.T) {
	r, _ := newDealRouter(t, "user-1")

	w, _ := doJSON(t, r, http.MethodPatch, "/deals/missing/stage", gin.H{"stage_id": "stage-won"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/deals/deal-1/stage", gin.H{"stage_id": "stage-x"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/deals/deal-1/stage", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	foreign, _ := newDealRouter(t, "user-2")
	w, _ = doJSON(t, foreign, http.MethodPatch, "/deals/deal-1/stage", gin.H{"stage_id": "stage-won"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateDealEndpoint(t *testing.T) {
	r, _ := newDealRouter(t, "user-1")

	w, env := doJSON(t, r, http.MethodPost, "/deals", gin.H{
		"title":      "Expansion",
		"value":      1200.50,
		"stage_id":   "stage-new",
		"contact_id": "contact-1",
		"close_date": "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Expansion", env.Data["title"])

	// Negative value is rejected at binding time.
	w, _ = doJSON(t, r, http.MethodPost, "/deals", gin.H{
		"title":      "Bad",
		"value":      -5,
		"stage_id":   "stage-new",
		"contact_id": "contact-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/deals", gin.H{
		"title":      "Orphan",
		"value":      10,
		"stage_id":   "stage-new",
		"contact_id": "contact-x",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDealEndpoint(t *testing.T) {
	r, deals := newDealRouter(t, "user-1")

	w, _ := doJSON(t, r, http.MethodDelete, "/deals/deal-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, deals.deals)

	w, _ = doJSON(t, r, http.MethodDelete, "/deals/deal-1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
