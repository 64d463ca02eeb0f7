package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	"github.com/salesloop/salesloop-api/internal/domain/repository"
)

type StageRepository struct {
	pool *pgxpool.Pool
}

func NewStageRepository(pool *pgxpool.Pool) *StageRepository {
	return &StageRepository{pool: pool}
}

func (r *StageRepository) GetByID(ctx context.Context, id string) (*entity.PipelineStage, error) {
	s := &entity.PipelineStage{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, color, sort_order, created_at
		FROM pipeline_stages
		WHERE id = $1
	`, id)
	if err := row.Scan(&s.ID, &s.Name, &s.Color, &s.SortOrder, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StageRepository) List(ctx context.Context) ([]entity.PipelineStage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, color, sort_order, created_at
		FROM pipeline_stages
		ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]entity.PipelineStage, 0)
	for rows.Next() {
		var s entity.PipelineStage
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.SortOrder, &s.CreatedAt); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

var _ repository.StageRepository = (*StageRepository)(nil)
