package router

import (
	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/internal/container"
	pginfra "github.com/salesloop/salesloop-api/internal/infrastructure/postgres"
	handlers "github.com/salesloop/salesloop-api/internal/interface/http"
	"github.com/salesloop/salesloop-api/internal/router/modules"
)

// InitModules builds repositories, services and handlers from the container
// singletons and registers every feature module with the registry.
// Call once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	leadRepo := pginfra.NewLeadRepository(pool)
	contactRepo := pginfra.NewContactRepository(pool)
	dealRepo := pginfra.NewDealRepository(pool)
	stageRepo := pginfra.NewStageRepository(pool)
	activityRepo := pginfra.NewActivityRepository(pool)

	userSvc := application.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), logger, container.GetRabbitPub())
	leadSvc := application.NewLeadService(leadRepo, contactRepo, logger)
	conversionSvc := application.NewConversionService(leadRepo, contactRepo, activityRepo, logger, container.GetRabbitPub(), container.GetES(), cfg.ESContactsIndex)
	contactSvc := application.NewContactService(contactRepo, logger, container.GetGCS(), cfg.GCSBucket, container.GetES(), cfg.ESContactsIndex)
	pipelineSvc := application.NewPipelineService(dealRepo, stageRepo, contactRepo, activityRepo, container.GetRedis(), logger)
	activitySvc := application.NewActivityService(activityRepo, logger)

	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	leadHandler := handlers.NewLeadHandler(leadSvc, conversionSvc, logger)
	contactHandler := handlers.NewContactHandler(contactSvc, pipelineSvc, logger)
	dealHandler := handlers.NewDealHandler(pipelineSvc, logger)
	stageHandler := handlers.NewStageHandler(pipelineSvc)
	activityHandler := handlers.NewActivityHandler(activitySvc)

	jwt := container.GetJWT()
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewLeadModule(leadHandler, jwt))
	r.Add(modules.NewContactModule(contactHandler, jwt))
	r.Add(modules.NewDealModule(dealHandler, jwt))
	r.Add(modules.NewPipelineModule(stageHandler, jwt))
	r.Add(modules.NewActivityModule(activityHandler, jwt))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
