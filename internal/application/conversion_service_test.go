package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

func newConversionFixture(t *testing.T) (*ConversionService, *memStore, *entity.Lead) {
	t.Helper()
	store := newMemStore()
	svc := NewConversionService(
		&memLeadRepo{s: store},
		&memContactRepo{s: store},
		&memActivityRepo{s: store},
		nil, nil, nil, "",
	)

	lead := &entity.Lead{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Phone:  "+4420000000",
		Source: "webform",
		Notes:  "asked for a demo",
		UserID: "user-1",
	}
	require.NoError(t, (&memLeadRepo{s: store}).Create(context.Background(), lead))
	return svc, store, lead
}

func TestConvertCreatesContactAndMarksLead(t *testing.T) {
	svc, store, lead := newConversionFixture(t)
	ctx := context.Background()

	contact, err := svc.Convert(ctx, lead.ID, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, contact.ID)

	// Contact carries the lead's data and points back at it.
	require.Equal(t, lead.Name, contact.Name)
	require.Equal(t, lead.Email, contact.Email)
	require.Equal(t, lead.Phone, contact.Phone)
	require.Equal(t, lead.Notes, contact.Notes)
	require.Equal(t, "active", contact.Status)
	require.NotNil(t, contact.LeadID)
	require.Equal(t, lead.ID, *contact.LeadID)

	// The lead survives, marked converted.
	stored, err := (&memLeadRepo{s: store}).GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.True(t, stored.Converted())

	// The conversion shows up in the activity feed.
	acts, err := (&memActivityRepo{s: store}).ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, acts, 1)
	require.Equal(t, "lead_converted", acts[0].Type)
}

func TestConvertTwiceReturnsAlreadyConverted(t *testing.T) {
	svc, store, lead := newConversionFixture(t)
	ctx := context.Background()

	first, err := svc.Convert(ctx, lead.ID, "user-1")
	require.NoError(t, err)

	_, err = svc.Convert(ctx, lead.ID, "user-1")
	require.ErrorIs(t, err, ErrAlreadyConverted)

	// Still exactly one contact for the lead.
	got, err := (&memContactRepo{s: store}).GetByLeadID(ctx, lead.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
}

func TestConvertConcurrentCallsCreateOneContact(t *testing.T) {
	svc, store, lead := newConversionFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Convert(ctx, lead.ID, "user-1")
		}(i)
	}
	wg.Wait()

	var okCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			require.ErrorIs(t, err, ErrAlreadyConverted)
		}
	}
	require.Equal(t, 1, okCount)

	contacts, err := (&memContactRepo{s: store}).ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
}

func TestConvertUnknownLead(t *testing.T) {
	svc, _, _ := newConversionFixture(t)
	_, err := svc.Convert(context.Background(), "nope", "user-1")
	require.ErrorIs(t, err, ErrLeadNotFound)
}

func TestConvertForeignLeadRejected(t *testing.T) {
	svc, store, lead := newConversionFixture(t)
	ctx := context.Background()

	_, err := svc.Convert(ctx, lead.ID, "user-2")
	require.ErrorIs(t, err, ErrUnauthorized)

	// Nothing was written.
	stored, err := (&memLeadRepo{s: store}).GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.False(t, stored.Converted())
}

func TestConvertDuplicateEmailRejected(t *testing.T) {
	svc, store, lead := newConversionFixture(t)
	ctx := context.Background()

	// A contact with the same email already exists for this user.
	existing := &entity.Contact{Name: "Ada L", Email: lead.Email, UserID: "user-1", Status: "active"}
	require.NoError(t, (&memContactRepo{s: store}).Create(ctx, existing))

	_, err := svc.Convert(ctx, lead.ID, "user-1")
	require.ErrorIs(t, err, ErrAlreadyConverted)

	// The lead is untouched.
	stored, err := (&memLeadRepo{s: store}).GetByID(ctx, lead.ID)
	require.NoError(t, err)
	require.False(t, stored.Converted())
}
