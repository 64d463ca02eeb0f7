package repository

import (
	"context"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// ContactRepository defines contact persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	GetByEmail(ctx context.Context, userID, email string) (*entity.Contact, error)
	GetByLeadID(ctx context.Context, leadID string) (*entity.Contact, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Contact, error)
	Update(ctx context.Context, c *entity.Contact) error
	Delete(ctx context.Context, id string) error
}
