package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/container"
	handlers "github.com/salesloop/salesloop-api/internal/interface/http"
	"github.com/salesloop/salesloop-api/internal/interface/middleware"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// LeadModule wires lead capture and conversion routes.
// Protected: GET /api/leads, POST /api/leads, POST /api/leads/:id/convert

type LeadModule struct {
	Handler *handlers.LeadHandler
	JWT     *helpers.JWTManager
}

func NewLeadModule(h *handlers.LeadHandler, jwt *helpers.JWTManager) *LeadModule {
	return &LeadModule{Handler: h, JWT: jwt}
}

func (m *LeadModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/leads", m.Handler.List)
		auth.POST("/leads", m.Handler.Create)
		auth.POST("/leads/:id/convert", m.Handler.Convert)
	}
}
