//go:build wireinject
// +build wireinject

package main

import (
	"scoreboard/config"
	"scoreboard/internal/command"
	"scoreboard/internal/cron"
	"scoreboard/internal/database"
	"scoreboard/internal/handler"
	"scoreboard/internal/middleware"
	"scoreboard/internal/router"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init cli commands.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.CommandSet,
			telemetry.ProviderSet,
			service.NewRegistryService,
			command.ProviderSet,
		),
	)
}
