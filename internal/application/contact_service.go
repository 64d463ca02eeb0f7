package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
	repo "github.com/salesloop/salesloop-api/internal/domain/repository"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// ContactService covers contact CRUD, avatar storage and search.
type ContactService struct {
	Contacts  repo.ContactRepository
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
}

func NewContactService(contacts repo.ContactRepository, logger *logrus.Logger, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esIndex string) *ContactService {
	return &ContactService{
		Contacts:  contacts,
		Logger:    logger,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		ES:        es,
		ESIndex:   esIndex,
	}
}

type ContactInput struct {
	Name   string
	Email  string
	Phone  string
	Status string
	Notes  string
}

func (s *ContactService) CreateContact(ctx context.Context, callerUserID string, in ContactInput) (*entity.Contact, error) {
	status := in.Status
	if status == "" {
		status = "active"
	}
	c := &entity.Contact{
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Status: status,
		Notes:  in.Notes,
		UserID: callerUserID,
	}
	if err := s.Contacts.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = indexContact(ctx, s.ES, s.ESIndex, s.Logger, c)
	return c, nil
}

func (s *ContactService) ListContacts(ctx context.Context, callerUserID string) ([]entity.Contact, error) {
	return s.Contacts.ListByUser(ctx, callerUserID)
}

func (s *ContactService) GetContact(ctx context.Context, contactID, callerUserID string) (*entity.Contact, error) {
	c, err := s.Contacts.GetByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	if c.UserID != callerUserID {
		return nil, ErrUnauthorized
	}
	return c, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, contactID, callerUserID string, in ContactInput) (*entity.Contact, error) {
	c, err := s.GetContact(ctx, contactID, callerUserID)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Notes = in.Notes
	if in.Status != "" {
		c.Status = in.Status
	}
	if err := s.Contacts.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = indexContact(ctx, s.ES, s.ESIndex, s.Logger, c)
	return c, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, contactID, callerUserID string) error {
	if _, err := s.GetContact(ctx, contactID, callerUserID); err != nil {
		return err
	}
	return s.Contacts.Delete(ctx, contactID)
}

// UploadAvatar stores a contact picture in GCS and records its public URL.
func (s *ContactService) UploadAvatar(ctx context.Context, contactID, callerUserID string, r io.Reader, filename, contentType string) (string, error) {
	c, err := s.GetContact(ctx, contactID, callerUserID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("contacts", c.ID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	c.AvatarURL = url
	if err := s.Contacts.Update(ctx, c); err != nil {
		return "", err
	}
	_ = indexContact(ctx, s.ES, s.ESIndex, s.Logger, c)
	return url, nil
}

// SearchContacts runs a multi_match query over name/email/notes,
// scoped to the caller's contacts.
func (s *ContactService) SearchContacts(ctx context.Context, callerUserID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^2", "email^2", "notes"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": callerUserID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// indexContact pushes the latest contact document to Elasticsearch.
// Indexing is best-effort; a failure is logged and never blocks the write path.
func indexContact(ctx context.Context, es *elasticsearch.Client, index string, logger *logrus.Logger, c *entity.Contact) error {
	if es == nil || index == "" {
		return nil
	}
	doc := map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"phone":      c.Phone,
		"status":     c.Status,
		"notes":      c.Notes,
		"user_id":    c.UserID,
		"created_at": c.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": c.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: index, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, es)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("contact_id", c.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && logger != nil {
		logger.WithField("status", res.Status()).WithField("contact_id", c.ID).Warn("es index response error")
	}
	return nil
}
