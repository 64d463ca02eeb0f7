package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/board"
	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

const (
	stageCacheKey = "cache:pipeline_stages"
	stageCacheTTL = 5 * time.Minute
)

// PipelineService owns the deals board: stage transitions, deal CRUD
// and the ordered stage listing.
type PipelineService struct {
	Deals      repo.DealRepository
	Stages     repo.StageRepository
	Contacts   repo.ContactRepository
	Activities repo.ActivityRepository
	Redis      *redis.Client
	Logger     *logrus.Logger
}

func NewPipelineService(deals repo.DealRepository, stages repo.StageRepository, contacts repo.ContactRepository, activities repo.ActivityRepository, rdb *redis.Client, logger *logrus.Logger) *PipelineService {
	return &PipelineService{
		Deals:      deals,
		Stages:     stages,
		Contacts:   contacts,
		Activities: activities,
		Redis:      rdb,
		Logger:     logger,
	}
}

// SetStage moves dealID to targetStageID. It is a pure "set": a repeat
// call with the same target reads the deal, sees nothing to do and
// returns it without a write, so retried deliveries are safe. Only the
// stage reference is ever written.
func (s *PipelineService) SetStage(ctx context.Context, dealID, targetStageID, callerUserID string) (*entity.Deal, error) {
	deal, err := s.Deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}
	if deal.UserID != callerUserID {
		return nil, ErrUnauthorized
	}
	if deal.StageID == targetStageID {
		return deal, nil
	}
	if _, err := s.Stages.GetByID(ctx, targetStageID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	updated, err := s.Deals.UpdateStage(ctx, dealID, targetStageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, err
	}

	s.recordStageChange(ctx, updated)
	return updated, nil
}

// ListStages returns stages in board order. Stages are configuration
// data, so the listing is cached in Redis for a short window.
func (s *PipelineService) ListStages(ctx context.Context) ([]entity.PipelineStage, error) {
	if s.Redis != nil {
		var cached []entity.PipelineStage
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, stageCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	stages, err := s.Stages.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, stageCacheKey, stages, stageCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("stage cache write failed")
		}
	}
	return stages, nil
}

func (s *PipelineService) ListDeals(ctx context.Context, userID string) ([]entity.Deal, error) {
	return s.Deals.ListByUser(ctx, userID)
}

func (s *PipelineService) ListDealsByContact(ctx context.Context, contactID, callerUserID string) ([]entity.Deal, error) {
	contact, err := s.Contacts.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	if contact.UserID != callerUserID {
		return nil, ErrUnauthorized
	}
	return s.Deals.ListByContact(ctx, contactID)
}

type CreateDealInput struct {
	Title     string
	Value     float64
	StageID   string
	ContactID string
	CloseDate *time.Time
}

func (s *PipelineService) CreateDeal(ctx context.Context, callerUserID string, in CreateDealInput) (*entity.Deal, error) {
	if in.Value < 0 {
		return nil, ErrNegativeValue
	}
	contact, err := s.Contacts.GetByID(ctx, in.ContactID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	if contact.UserID != callerUserID {
		return nil, ErrUnauthorized
	}
	if _, err := s.Stages.GetByID(ctx, in.StageID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}

	deal := &entity.Deal{
		Title:     in.Title,
		Value:     in.Value,
		Status:    "active",
		StageID:   in.StageID,
		ContactID: in.ContactID,
		UserID:    callerUserID,
		CloseDate: in.CloseDate,
	}
	if err := s.Deals.Create(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *PipelineService) DeleteDeal(ctx context.Context, dealID, callerUserID string) error {
	deal, err := s.Deals.GetByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrDealNotFound
		}
		return err
	}
	if deal.UserID != callerUserID {
		return ErrUnauthorized
	}
	return s.Deals.Delete(ctx, dealID)
}

// Snapshot loads a board snapshot (ordered stages plus the user's
// deals) for the reconciliation protocol. It is the authoritative
// re-read the board settles against after every in-flight move.
func (s *PipelineService) Snapshot(ctx context.Context, userID string) (*board.Snapshot, error) {
	stages, err := s.ListStages(ctx)
	if err != nil {
		return nil, err
	}
	deals, err := s.Deals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &board.Snapshot{Stages: stages, Deals: deals}, nil
}

func (s *PipelineService) recordStageChange(ctx context.Context, d *entity.Deal) {
	if s.Activities == nil {
		return
	}
	did := d.ID
	a := &entity.ActivityLog{
		Type:        "stage_changed",
		Description: "Deal " + d.Title + " moved to a new stage",
		DealID:      &did,
		UserID:      d.UserID,
	}
	if err := s.Activities.Create(ctx, a); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("deal_id", d.ID).Warn("activity log write failed")
	}
}
