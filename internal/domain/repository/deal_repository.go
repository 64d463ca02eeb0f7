package repository

import (
	"context"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// DealRepository defines deal persistence operations.
//
// UpdateStage writes stage_id and nothing else; every other column is
// untouched no matter what the caller's request payload carried.
type DealRepository interface {
	Create(ctx context.Context, d *entity.Deal) error
	GetByID(ctx context.Context, id string) (*entity.Deal, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Deal, error)
	ListByContact(ctx context.Context, contactID string) ([]entity.Deal, error)
	UpdateStage(ctx context.Context, dealID, stageID string) (*entity.Deal, error)
	Delete(ctx context.Context, id string) error
}
