package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/container"
	handlers "github.com/salesloop/salesloop-api/internal/interface/http"
	"github.com/salesloop/salesloop-api/internal/interface/middleware"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// DealModule wires deal and stage-transition routes.
// Protected: GET /api/deals, POST /api/deals, PATCH /api/deals/:id/stage, DELETE /api/deals/:id

type DealModule struct {
	Handler *handlers.DealHandler
	JWT     *helpers.JWTManager
}

func NewDealModule(h *handlers.DealHandler, jwt *helpers.JWTManager) *DealModule {
	return &DealModule{Handler: h, JWT: jwt}
}

func (m *DealModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/deals", m.Handler.List)
		auth.POST("/deals", m.Handler.Create)
		auth.PATCH("/deals/:id/stage", m.Handler.SetStage)
		auth.DELETE("/deals/:id", m.Handler.Delete)
	}
}
