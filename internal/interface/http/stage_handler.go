package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/pkg/response"
)

type StageHandler struct {
	Svc *application.PipelineService
}

func NewStageHandler(svc *application.PipelineService) *StageHandler {
	return &StageHandler{Svc: svc}
}

func (h *StageHandler) List(c *gin.Context) {
	stages, err := h.Svc.ListStages(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(stages))
	for i := range stages {
		out = append(out, stageView(&stages[i]))
	}
	response.Success(c, http.StatusOK, out, "pipeline stages", gin.H{"count": len(out)})
}

// Board returns stages plus deals in one payload for the kanban view.
func (h *StageHandler) Board(c *gin.Context) {
	snap, err := h.Svc.Snapshot(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	stages := make([]gin.H, 0, len(snap.Stages))
	for i := range snap.Stages {
		stages = append(stages, stageView(&snap.Stages[i]))
	}
	deals := make([]gin.H, 0, len(snap.Deals))
	for i := range snap.Deals {
		deals = append(deals, dealView(&snap.Deals[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"stages": stages, "deals": deals}, "board", nil)
}
