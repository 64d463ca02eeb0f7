package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
)

// LeadService covers plain lead CRUD; conversion lives in ConversionService.
type LeadService struct {
	Leads    repo.LeadRepository
	Contacts repo.ContactRepository
	Logger   *logrus.Logger
}

func NewLeadService(leads repo.LeadRepository, contacts repo.ContactRepository, logger *logrus.Logger) *LeadService {
	return &LeadService{Leads: leads, Contacts: contacts, Logger: logger}
}

type CreateLeadInput struct {
	Name   string
	Email  string
	Phone  string
	Source string
	Status string
	Notes  string
}

func (s *LeadService) CreateLead(ctx context.Context, callerUserID string, in CreateLeadInput) (*entity.Lead, error) {
	lead := &entity.Lead{
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Source: in.Source,
		Status: in.Status,
		Notes:  in.Notes,
		UserID: callerUserID,
	}
	if err := s.Leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// LeadWithContact pairs a lead with the contact it became, if converted.
type LeadWithContact struct {
	Lead    entity.Lead
	Contact *entity.Contact
}

func (s *LeadService) ListLeads(ctx context.Context, callerUserID string) ([]LeadWithContact, error) {
	leads, err := s.Leads.ListByUser(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	out := make([]LeadWithContact, 0, len(leads))
	for _, l := range leads {
		item := LeadWithContact{Lead: l}
		if l.Converted() {
			c, err := s.Contacts.GetByLeadID(ctx, l.ID)
			if err == nil {
				item.Contact = c
			} else if !errors.Is(err, repo.ErrNotFound) {
				return nil, err
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *LeadService) GetLead(ctx context.Context, leadID, callerUserID string) (*entity.Lead, error) {
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
	return lead, nil
}
