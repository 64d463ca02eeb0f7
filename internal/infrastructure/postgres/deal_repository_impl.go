package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	"github.com/salesloop/salesloop-api/internal/domain/repository"
)

type DealRepository struct {
	pool *pgxpool.Pool
}

func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

const dealColumns = `id, title, value, status, stage_id, contact_id, user_id, close_date, created_at, updated_at`

func scanDeal(row pgx.Row, d *entity.Deal) error {
	return row.Scan(&d.ID, &d.Title, &d.Value, &d.Status, &d.StageID,
		&d.ContactID, &d.UserID, &d.CloseDate, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO deals (title, value, status, stage_id, contact_id, user_id, close_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, d.Title, d.Value, d.Status, d.StageID, d.ContactID, d.UserID, d.CloseDate)

	return row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DealRepository) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	d := &entity.Deal{}
	row := r.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	if err := scanDeal(row, d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByUser returns the user's deals with contact and stage populated,
// newest first. There is deliberately no intra-stage ordering column;
// created_at desc is the server's arbitrary order.
func (r *DealRepository) ListByUser(ctx context.Context, userID string) ([]entity.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.title, d.value, d.status, d.stage_id, d.contact_id, d.user_id,
		       d.close_date, d.created_at, d.updated_at,
		       c.id, c.name, c.email,
		       s.id, s.name, s.color, s.sort_order
		FROM deals d
		JOIN contacts c ON c.id = d.contact_id
		JOIN pipeline_stages s ON s.id = d.stage_id
		WHERE d.user_id = $1
		ORDER BY d.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]entity.Deal, 0)
	for rows.Next() {
		var d entity.Deal
		var c entity.Contact
		var s entity.PipelineStage
		if err := rows.Scan(&d.ID, &d.Title, &d.Value, &d.Status, &d.StageID, &d.ContactID,
			&d.UserID, &d.CloseDate, &d.CreatedAt, &d.UpdatedAt,
			&c.ID, &c.Name, &c.Email,
			&s.ID, &s.Name, &s.Color, &s.SortOrder); err != nil {
			return nil, err
		}
		d.Contact = &c
		d.Stage = &s
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *DealRepository) ListByContact(ctx context.Context, contactID string) ([]entity.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dealColumns+` FROM deals
		WHERE contact_id = $1
		ORDER BY created_at DESC
	`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]entity.Deal, 0)
	for rows.Next() {
		var d entity.Deal
		if err := scanDeal(rows, &d); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// UpdateStage overwrites stage_id only. Title, value, contact, close
// date and status are never touched here.
func (r *DealRepository) UpdateStage(ctx context.Context, dealID, stageID string) (*entity.Deal, error) {
	d := &entity.Deal{}
	row := r.pool.QueryRow(ctx, `
		UPDATE deals
		SET stage_id = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+dealColumns+`
	`, stageID, dealID)
	if err := scanDeal(row, d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.DealRepository = (*DealRepository)(nil)
