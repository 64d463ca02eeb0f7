package repository

import (
	"context"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

// LeadRepository defines lead persistence operations.
//
// Convert is the compound write of the conversion flow: it inserts the
// contact and flips the lead status to converted in one transaction.
// The status flip is a compare-and-set (only a not-yet-converted lead
// matches), so a concurrent second conversion fails with ErrConflict
// and leaves no partial state behind.
type LeadRepository interface {
	Create(ctx context.Context, l *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Lead, error)
	Convert(ctx context.Context, leadID string, c *entity.Contact) (*entity.Contact, error)
}
