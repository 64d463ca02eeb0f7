package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/pkg/response"
	"github.com/salesloop/salesloop-api/pkg/validation"
)

type ContactHandler struct {
	Svc      *application.ContactService
	Pipeline *application.PipelineService
	Logger   *logrus.Logger
}

func NewContactHandler(svc *application.ContactService, pipeline *application.PipelineService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{Svc: svc, Pipeline: pipeline, Logger: logger}
}

type contactRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (r *contactRequest) input() application.ContactInput {
	return application.ContactInput{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Status: r.Status,
		Notes:  r.Notes,
	}
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	contact, err := h.Svc.CreateContact(c.Request.Context(), c.GetString("userID"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, contactView(contact), "contact created", nil)
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.Svc.ListContacts(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(contacts))
	for i := range contacts {
		out = append(out, contactView(&contacts[i]))
	}
	response.Success(c, http.StatusOK, out, "contacts", gin.H{"count": len(out)})
}

func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.Svc.GetContact(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, contactView(contact), "contact", nil)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	contact, err := h.Svc.UpdateContact(c.Request.Context(), c.Param("id"), c.GetString("userID"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, contactView(contact), "contact updated", nil)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteContact(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "contact deleted", nil)
}

// ListDeals returns the deals attached to one contact.
func (h *ContactHandler) ListDeals(c *gin.Context) {
	deals, err := h.Pipeline.ListDealsByContact(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(deals))
	for i := range deals {
		out = append(out, dealView(&deals[i]))
	}
	response.Success(c, http.StatusOK, out, "deals", gin.H{"count": len(out)})
}

type createContactDealRequest struct {
	Title     string  `json:"title" binding:"required"`
	Value     float64 `json:"value" binding:"money"`
	StageID   string  `json:"stage_id" binding:"required"`
	CloseDate string  `json:"close_date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateDeal opens a deal for the contact in the URL.
func (h *ContactHandler) CreateDeal(c *gin.Context) {
	var req createContactDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.CreateDealInput{
		Title:     req.Title,
		Value:     req.Value,
		StageID:   req.StageID,
		ContactID: c.Param("id"),
	}
	if req.CloseDate != "" {
		t, _ := time.Parse("2006-01-02", req.CloseDate)
		in.CloseDate = &t
	}

	deal, err := h.Pipeline.CreateDeal(c.Request.Context(), c.GetString("userID"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dealView(deal), "deal created", nil)
}

// UploadAvatar accepts a multipart file and stores it in GCS.
func (h *ContactHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.Param("id"), c.GetString("userID"), f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// Search queries the contact index.
func (h *ContactHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchContacts(c.Request.Context(), c.GetString("userID"), q, size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
