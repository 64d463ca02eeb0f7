package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
)

// ActivityService exposes the per-user activity feed.
type ActivityService struct {
	Activities repo.ActivityRepository
	Logger     *logrus.Logger
}

func NewActivityService(activities repo.ActivityRepository, logger *logrus.Logger) *ActivityService {
	return &ActivityService{Activities: activities, Logger: logger}
}

type ActivityInput struct {
	Type        string
	Description string
	DealID      *string
	ContactID   *string
}

func (s *ActivityService) Log(ctx context.Context, callerUserID string, in ActivityInput) (*entity.ActivityLog, error) {
	a := &entity.ActivityLog{
		Type:        in.Type,
		Description: in.Description,
		DealID:      in.DealID,
		ContactID:   in.ContactID,
		UserID:      callerUserID,
	}
	if err := s.Activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ActivityService) List(ctx context.Context, callerUserID string) ([]entity.ActivityLog, error) {
	return s.Activities.ListByUser(ctx, callerUserID)
}
