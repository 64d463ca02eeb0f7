package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	"github.com/salesloop/salesloop-api/internal/domain/repository"
)

type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

const leadColumns = `id, name, email, phone, source, status, notes, user_id, created_at, updated_at`

func scanLead(row pgx.Row, l *entity.Lead) error {
	return row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Status,
		&l.Notes, &l.UserID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	if l.Status == "" {
		l.Status = entity.LeadStatusNew
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, source, status, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, l.Name, l.Email, l.Phone, l.Source, l.Status, l.Notes, l.UserID)

	return row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l := &entity.Lead{}
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if err := scanLead(row, l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *LeadRepository) ListByUser(ctx context.Context, userID string) ([]entity.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]entity.Lead, 0)
	for rows.Next() {
		var l entity.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Convert inserts the contact and marks the lead converted inside one
// transaction. The contact insert runs first so a failed insert never
// leaves the lead marked; the status update is a compare-and-set so a
// lead that was converted in the meantime aborts the whole transaction
// with ErrConflict. A unique index on contacts.lead_id (and on the per-user
// email) backs the same guarantee at the storage level.
func (r *LeadRepository) Convert(ctx context.Context, leadID string, c *entity.Contact) (*entity.Contact, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, status, notes, user_id, lead_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Status, c.Notes, c.UserID, c.LeadID)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}

	res, err := tx.Exec(ctx, `
		UPDATE leads
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status <> $1
	`, entity.LeadStatusConverted, leadID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

var _ repository.LeadRepository = (*LeadRepository)(nil)
