package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/pkg/response"
	"github.com/salesloop/salesloop-api/pkg/validation"
)

type DealHandler struct {
	Svc    *application.PipelineService
	Logger *logrus.Logger
}

func NewDealHandler(svc *application.PipelineService, logger *logrus.Logger) *DealHandler {
	return &DealHandler{Svc: svc, Logger: logger}
}

func (h *DealHandler) List(c *gin.Context) {
	deals, err := h.Svc.ListDeals(c.Request.Context(), c.GetString("userID"))
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

// setStageRequest deliberately binds stage_id only. Clients may send a
// whole deal object; everything except the stage reference is dropped
// before it can reach the store.
type setStageRequest struct {
	StageID string `json:"stage_id" binding:"required"`
}

// SetStage is the PATCH endpoint behind board drags. It is safe to
// retry: setting a deal to the stage it is already in returns the deal
// unchanged.
func (h *DealHandler) SetStage(c *gin.Context) {
	dealID := c.Param("id")
	if dealID == "" {
		response.Error(c, http.StatusBadRequest, "missing deal id", nil)
		return
	}

	var req setStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	deal, err := h.Svc.SetStage(c.Request.Context(), dealID, req.StageID, c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, dealView(deal), "stage updated", nil)
}

type createDealRequest struct {
	Title     string  `json:"title" binding:"required"`
	Value     float64 `json:"value" binding:"money"`
	StageID   string  `json:"stage_id" binding:"required"`
	ContactID string  `json:"contact_id" binding:"required"`
	CloseDate string  `json:"close_date" binding:"omitempty,datetime=2006-01-02"`
}

func (h *DealHandler) Create(c *gin.Context) {
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.CreateDealInput{
		Title:     req.Title,
		Value:     req.Value,
		StageID:   req.StageID,
		ContactID: req.ContactID,
	}
	if req.CloseDate != "" {
		t, _ := time.Parse("2006-01-02", req.CloseDate)
		in.CloseDate = &t
	}

	deal, err := h.Svc.CreateDeal(c.Request.Context(), c.GetString("userID"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dealView(deal), "deal created", nil)
}

func (h *DealHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteDeal(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "deal deleted", nil)
}
