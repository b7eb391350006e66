package database

import (
	"context"
	"fmt"
	"strings"

	"scoreboard/config"
	"scoreboard/internal/core"
	client "scoreboard/internal/database/client"
	"scoreboard/internal/database/file"
	fluentdRepo "scoreboard/internal/database/fluentd/repository"
	minioRepo "scoreboard/internal/database/minio/repository"
	mongoRepo "scoreboard/internal/database/mongodb/repository"
	mysqlRepo "scoreboard/internal/database/mysql/repository"
	redisRepo "scoreboard/internal/database/redis/repository"
	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"
	"scoreboard/utils/path"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// ProviderSet 定義所有 DB Client 與 repository 的依賴
var ProviderSet = wire.NewSet(
	client.NewRedisClient,
	client.NewMongoClient,
	client.NewMySQLClient,
	client.NewMinioClient,
	client.NewFluentdClient,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
	minioRepo.NewBackupRepository,
	NewSnapshotPersister,
	NewRegistryStore,
)

// CommandSet 為 CLI 子命令所需：只建 registry 與稽核，不連 MinIO、不建簡訊冷卻
var CommandSet = wire.NewSet(
	client.NewRedisClient,
	client.NewMongoClient,
	client.NewMySQLClient,
	client.NewFluentdClient,
	fluentdRepo.ProviderSet,
	NewSnapshotPersister,
	NewRegistryStore,
)

// NewSnapshotPersister 依 STORAGE__DRIVER 選擇 snapshot backend；所選 backend 未設定時回傳錯誤
func NewSnapshotPersister(
	logger *zap.Logger,
	config *config.Configuration,
	trace *telemetry.Trace,
	redisClient *client.RedisClient,
	mongoClient *client.MongoClient,
	mysqlClient *client.MySQLClient,
) (registry.Persister, error) {
	driver := core.StorageDriver(strings.ToLower(strings.TrimSpace(config.Storage.Driver)))
	if driver == "" {
		driver = core.StorageFile
	}
	logger.Info("registry storage selected", zap.String("driver", string(driver)))

	switch driver {
	case core.StorageFile:
		dir := config.Storage.Dir
		if dir == "" {
			dir = path.DataDir("data")
		}
		return file.NewSnapshotRepository(trace, dir)
	case core.StorageMemory:
		return registry.NewMemoryPersister(), nil
	case core.StorageRedis:
		return redisRepo.NewSnapshotRepository(trace, redisClient, config)
	case core.StorageMongo:
		return mongoRepo.NewRegistrySnapshotRepository(trace, mongoClient)
	case core.StorageMySQL:
		return mysqlRepo.NewKVEntryRepository(trace, mysqlClient)
	default:
		return nil, fmt.Errorf("unsupported STORAGE__DRIVER %q (want one of %v)", driver, core.StorageDrivers)
	}
}

// NewRegistryStore 建立 registry 並載入既有 snapshot；cleanup 時做最後一次寫回
func NewRegistryStore(logger *zap.Logger, config *config.Configuration, persister registry.Persister) (*registry.Store, func(), error) {
	store := registry.NewStore(persister, logger, registry.WithStorageKey(config.Storage.Key))
	if err := store.Init(context.Background()); err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("flush registry on shutdown failed", zap.Error(err))
		}
	}
	return store, cleanup, nil
}
