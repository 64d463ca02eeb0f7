package repository

import (
	"context"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// ActivityRepository persists the per-user activity feed.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.ActivityLog) error
	ListByUser(ctx context.Context, userID string) ([]entity.ActivityLog, error)
}
