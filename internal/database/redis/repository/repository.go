package repository

import (
	"github.com/google/wire"
)

// Wire 依賴提供；SnapshotRepository 只在 STORAGE__DRIVER=redis 時由 database.NewSnapshotPersister 建立
var ProviderSet = wire.NewSet(
	NewSmsCooldownRepository,
)
