package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/container"
	handlers "github.com/salesloop/salesloop-api/internal/interface/http"
	"github.com/salesloop/salesloop-api/internal/interface/middleware"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// ContactModule wires contact CRUD, avatar upload and search routes.
// Protected: /api/contacts..., GET /api/search/contacts

type ContactModule struct {
	Handler *handlers.ContactHandler
	JWT     *helpers.JWTManager
}

func NewContactModule(h *handlers.ContactHandler, jwt *helpers.JWTManager) *ContactModule {
	return &ContactModule{Handler: h, JWT: jwt}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/contacts", m.Handler.List)
		auth.POST("/contacts", m.Handler.Create)
		auth.GET("/contacts/:id", m.Handler.Get)
		auth.PUT("/contacts/:id", m.Handler.Update)
		auth.DELETE("/contacts/:id", m.Handler.Delete)
		auth.GET("/contacts/:id/deals", m.Handler.ListDeals)
		auth.POST("/contacts/:id/deals", m.Handler.CreateDeal)
		auth.POST("/contacts/:id/avatar", m.Handler.UploadAvatar)

		// Contact search via Elasticsearch
		auth.GET("/search/contacts", m.Handler.Search)
	}
}
