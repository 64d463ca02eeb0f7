package application

import (
	"context"
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
	"github.com/salesloop/salesloop-api/pkg/helpers"
	"github.com/salesloop/salesloop-api/pkg/mailer"
)

// ConversionService turns one lead into one contact, exactly once.
type ConversionService struct {
	Leads      repo.LeadRepository
	Contacts   repo.ContactRepository
	Activities repo.ActivityRepository
	Logger     *logrus.Logger
	Pub        *helpers.RabbitPublisher
	ES         *elasticsearch.Client
	ESIndex    string
}

func NewConversionService(leads repo.LeadRepository, contacts repo.ContactRepository, activities repo.ActivityRepository, logger *logrus.Logger, pub *helpers.RabbitPublisher, es *elasticsearch.Client, esIndex string) *ConversionService {
	return &ConversionService{
		Leads:      leads,
		Contacts:   contacts,
		Activities: activities,
		Logger:     logger,
		Pub:        pub,
		ES:         es,
		ESIndex:    esIndex,
	}
}

// Convert creates a contact from the lead's data and marks the lead
// converted. The pre-checks below produce the specific failure reason;
// the real concurrency guard is the repository's transactional
// compare-and-set, so two racing calls end with exactly one contact and
// one ErrAlreadyConverted.
func (s *ConversionService) Convert(ctx context.Context, leadID, callerUserID string) (*entity.Contact, error) {
	lead, err := s.Leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	if lead.UserID != callerUserID {
		return nil, ErrUnauthorized
	}
	if lead.Converted() {
		return nil, ErrAlreadyConverted
	}
	if _, err := s.Contacts.GetByLeadID(ctx, lead.ID); err == nil {
		return nil, ErrAlreadyConverted
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Contacts.GetByEmail(ctx, lead.UserID, lead.Email); err == nil {
		return nil, ErrAlreadyConverted
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	leadRef := lead.ID
	contact := &entity.Contact{
		Name:   lead.Name,
		Email:  lead.Email,
		Phone:  lead.Phone,
		Status: "active",
		Notes:  lead.Notes,
		UserID: lead.UserID,
		LeadID: &leadRef,
	}

	created, err := s.Leads.Convert(ctx, lead.ID, contact)
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrAlreadyConverted
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("lead_id", lead.ID).Error("lead conversion failed")
		}
		return nil, err
	}

	s.recordActivity(ctx, created)
	s.notify(ctx, created)
	_ = indexContact(ctx, s.ES, s.ESIndex, s.Logger, created)

	return created, nil
}

func (s *ConversionService) recordActivity(ctx context.Context, c *entity.Contact) {
	if s.Activities == nil {
		return
	}
	cid := c.ID
	a := &entity.ActivityLog{
		Type:        "lead_converted",
		Description: "Lead converted to contact " + c.Name,
		ContactID:   &cid,
		UserID:      c.UserID,
	}
	if err := s.Activities.Create(ctx, a); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("contact_id", c.ID).Warn("activity log write failed")
	}
}

func (s *ConversionService) notify(ctx context.Context, c *entity.Contact) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       c.Email,
		Template: mailer.TemplateLeadConverted,
		Data:     map[string]any{"Name": c.Name},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("contact_id", c.ID).Warn("notification publish failed")
	}
}
