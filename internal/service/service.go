package service

import (
	"time"

	"scoreboard/internal/database/redis/repository"
	"scoreboard/internal/service/platform"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	platform.NewHttpClient,
	platform.ProviderSet,
	wire.Bind(new(SmsCooldown), new(*repository.SmsCooldownRepository)),
	NewSessionService,
	NewExamService,
	NewRegistryService,
	NewAdminAuthService,
	NewBackupService,
	NewProxyService,
	NewHealthService,
)

var nowUTC = func() time.Time { return time.Now().UTC() }
