package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/pkg/response"
	"github.com/salesloop/salesloop-api/pkg/validation"
)

type ActivityHandler struct {
	Svc *application.ActivityService
}

func NewActivityHandler(svc *application.ActivityService) *ActivityHandler {
	return &ActivityHandler{Svc: svc}
}

type activityRequest struct {
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description" binding:"required"`
	DealID      *string `json:"deal_id"`
	ContactID   *string `json:"contact_id"`
}

func (h *ActivityHandler) Create(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Log(c.Request.Context(), c.GetString("userID"), application.ActivityInput{
		Type:        req.Type,
		Description: req.Description,
		DealID:      req.DealID,
		ContactID:   req.ContactID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, activityView(a), "activity logged", nil)
}

func (h *ActivityHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(items))
	for i := range items {
		out = append(out, activityView(&items[i]))
	}
	response.Success(c, http.StatusOK, out, "activities", gin.H{"count": len(out)})
}
