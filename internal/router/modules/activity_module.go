package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/container"
	handlers "github.com/salesloop/salesloop-api/internal/interface/http"
	"github.com/salesloop/salesloop-api/internal/interface/middleware"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// ActivityModule wires the activity feed routes.
// Protected: GET /api/activities, POST /api/activities

type ActivityModule struct {
	Handler *handlers.ActivityHandler
	JWT     *helpers.JWTManager
}

func NewActivityModule(h *handlers.ActivityHandler, jwt *helpers.JWTManager) *ActivityModule {
	return &ActivityModule{Handler: h, JWT: jwt}
}

func (m *ActivityModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/activities", m.Handler.List)
		auth.POST("/activities", m.Handler.Create)
	}
}
