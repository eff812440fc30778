package fx

import (
	"mordheim-tracker/internal/config"
	"mordheim-tracker/internal/database"
	"mordheim-tracker/internal/logger"
	"mordheim-tracker/internal/repository"
	"mordheim-tracker/internal/scenario"
	"mordheim-tracker/internal/server"
	"mordheim-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewCampaignRepository),
	fx.Provide(repository.NewWarbandRepository),
	fx.Provide(repository.NewWarriorRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewEventRepository),
	fx.Provide(repository.NewNewsRepository),
	// scenario store
	fx.Provide(scenario.New),
	// svc
	fx.Provide(service.NewCampaignService),
	fx.Provide(service.NewWarbandService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewResolutionService),
	fx.Provide(service.NewProgressionService),
	fx.Provide(service.NewBroadcastService),
	fx.Provide(service.NewNewsService),
	// server
	fx.Provide(server.New),
)
