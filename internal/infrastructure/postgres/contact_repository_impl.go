package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	"github.com/salesloop/salesloop-api/internal/domain/repository"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, name, email, phone, status, notes, avatar_url, user_id, lead_id, created_at, updated_at`

func scanContact(row pgx.Row, c *entity.Contact) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.Notes,
		&c.AvatarURL, &c.UserID, &c.LeadID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, status, notes, user_id, lead_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Email, c.Phone, c.Status, c.Notes, c.UserID, c.LeadID)

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	c := &entity.Contact{}
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	if err := scanContact(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) GetByEmail(ctx context.Context, userID, email string) (*entity.Contact, error) {
	c := &entity.Contact{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id = $1 AND email = $2
	`, userID, email)
	if err := scanContact(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) GetByLeadID(ctx context.Context, leadID string) (*entity.Contact, error) {
	c := &entity.Contact{}
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE lead_id = $1`, leadID)
	if err := scanContact(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID string) ([]entity.Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]entity.Contact, 0)
	for rows.Next() {
		var c entity.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	c.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, status = $4, notes = $5, avatar_url = $6, updated_at = $7
		WHERE id = $8
	`, c.Name, c.Email, c.Phone, c.Status, c.Notes, c.AvatarURL, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
