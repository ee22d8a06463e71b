package router

import (
	"github.com/oksasatya/farm-registry/internal/application"
	"github.com/oksasatya/farm-registry/internal/container"
	"github.com/oksasatya/farm-registry/internal/infrastructure/cache"
	"github.com/oksasatya/farm-registry/internal/infrastructure/events"
	pginfra "github.com/oksasatya/farm-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/farm-registry/internal/infrastructure/search"
	handlers "github.com/oksasatya/farm-registry/internal/interface/http"
	"github.com/oksasatya/farm-registry/internal/router/modules"
)

// sideEffects are the optional collaborators shared by the record services.
// Unavailable backends stay nil interfaces so services skip them.
type sideEffects struct {
	cache  application.DashboardCache
	index  application.PropertyIndex
	events application.EventPublisher
}

func buildSideEffects() sideEffects {
	cfg := container.GetConfig()
	var fx sideEffects
	if rdb := container.GetRedis(); rdb != nil {
		fx.cache = cache.NewDashboardCache(rdb, cfg.DashboardCacheTTL)
	}
	if es := container.GetES(); es != nil {
		fx.index = search.NewPropertyIndex(es, cfg.ESPropertiesIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		fx.events = events.NewPublisher(pub)
	}
	return fx
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	db := container.GetPGPool()
	logger := container.GetLogger()
	codec := container.GetCodec()
	fx := buildSideEffects()

	authSvc := application.NewAuthService(pginfra.NewAdminRepository(db), container.GetJWT(), logger)
	producerSvc := application.NewProducerService(pginfra.NewProducerRepository(db), codec, fx.events, logger)
	propertySvc := application.NewPropertyService(pginfra.NewPropertyRepository(db), codec, fx.index, fx.cache, fx.events, logger)
	harvestSvc := application.NewHarvestService(
		pginfra.NewHarvestRepository(db),
		pginfra.NewCropRepository(db),
		codec,
		fx.cache,
		fx.events,
		logger,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewProducerModule(handlers.NewProducerHandler(producerSvc, logger), container.GetJWT()))
	r.Add(modules.NewPropertyModule(handlers.NewPropertyHandler(propertySvc, logger), container.GetJWT()))
	r.Add(modules.NewHarvestModule(handlers.NewHarvestHandler(harvestSvc, logger), container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
