package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	"github.com/salesloop/salesloop-api/internal/domain/repository"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.ActivityLog) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activity_logs (type, description, deal_id, contact_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, a.Type, a.Description, a.DealID, a.ContactID, a.UserID)

	return row.Scan(&a.ID, &a.CreatedAt)
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string) ([]entity.ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, description, deal_id, contact_id, user_id, created_at
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entity.ActivityLog, 0)
	for rows.Next() {
		var a entity.ActivityLog
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.DealID, &a.ContactID, &a.UserID, &a.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)
