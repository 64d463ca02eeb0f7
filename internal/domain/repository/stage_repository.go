package repository

import (
	"context"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// StageRepository reads pipeline stage configuration. List returns
// stages in board order (sort_order asc, id as tie-breaker).
type StageRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PipelineStage, error)
	List(ctx context.Context) ([]entity.PipelineStage, error)
}
