package repository

import (
	"context"
	"errors"
	"fmt"

	"scoreboard/config"
	"scoreboard/internal/core"
	client "scoreboard/internal/database/client"
	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// SnapshotRepository 把 registry snapshot 存成單一 Redis string
type SnapshotRepository struct {
	trace     *telemetry.Trace
	client    *redis.Client
	keyPrefix string
}

func NewSnapshotRepository(trace *telemetry.Trace, redisClient *client.RedisClient, config *config.Configuration) (*SnapshotRepository, error) {
	if !redisClient.Enabled() {
		return nil, errors.New("redis storage selected but REDIS__HOST is not set")
	}
	prefix := string(core.RedisKeyServerName)
	if config.Redis.KeyPrefix != "" {
		prefix = config.Redis.KeyPrefix
	}
	return &SnapshotRepository{trace: trace, client: redisClient.Client(), keyPrefix: prefix}, nil
}

func (repository *SnapshotRepository) Load(contextValue context.Context, key string) (_ []byte, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(ignoreNotFound(returnedError)) }()

	traceMetadata := core.TraceSnapshotMeta{Driver: string(core.StorageRedis), Key: key, Op: "load"}
	data, getError := repository.client.Get(contextValue, repository.buildKey(key)).Bytes()
	if errors.Is(getError, redis.Nil) {
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return nil, registry.ErrSnapshotNotFound
	}
	if getError != nil {
		return nil, getError
	}
	traceMetadata.Found, traceMetadata.Bytes = true, len(data)
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return data, nil
}

func (repository *SnapshotRepository) Save(contextValue context.Context, key string, data []byte) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceSnapshotMeta{
		Driver: string(core.StorageRedis),
		Key:    key,
		Bytes:  len(data),
		Op:     "save",
	})
	returnedError = repository.client.Set(contextValue, repository.buildKey(key), data, 0).Err()
	return returnedError
}

func (repository *SnapshotRepository) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", repository.keyPrefix, key)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, registry.ErrSnapshotNotFound) {
		return nil
	}
	return err
}
