package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/container"
	handlers "github.com/salesloop/salesloop-api/internal/interface/http"
	"github.com/salesloop/salesloop-api/internal/interface/middleware"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// PipelineModule wires stage listing and board routes.
// Protected: GET /api/pipeline/stages, GET /api/pipeline/board

type PipelineModule struct {
	Handler *handlers.StageHandler
	JWT     *helpers.JWTManager
}

func NewPipelineModule(h *handlers.StageHandler, jwt *helpers.JWTManager) *PipelineModule {
	return &PipelineModule{Handler: h, JWT: jwt}
}

func (m *PipelineModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/pipeline/stages", m.Handler.List)
		auth.GET("/pipeline/board", m.Handler.Board)
	}
}
