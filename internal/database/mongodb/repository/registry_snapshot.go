package repository

import (
	"context"
	"errors"
	"time"

	"scoreboard/internal/core"
	client "scoreboard/internal/database/client"
	"scoreboard/internal/database/mongodb/model"
	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RegistrySnapshotRepository struct {
	trace      *telemetry.Trace
	collection *mongo.Collection
}

func NewRegistrySnapshotRepository(trace *telemetry.Trace, mongoClient *client.MongoClient) (*RegistrySnapshotRepository, error) {
	if !mongoClient.Enabled() {
		return nil, errors.New("mongo storage selected but MONGODB__URI is not set")
	}
	return &RegistrySnapshotRepository{
		trace:      trace,
		collection: mongoClient.Database().Collection(string(core.MongoCollectionRegistrySnapshots)),
	}, nil
}

// Load 依 key 取得 snapshot；不存在時回傳 registry.ErrSnapshotNotFound
func (repository *RegistrySnapshotRepository) Load(contextValue context.Context, key string) (_ []byte, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		if errors.Is(returnedError, registry.ErrSnapshotNotFound) {
			endSpan(nil)
			return
		}
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceSnapshotMeta{Driver: string(core.StorageMongo), Key: key, Op: "load"}
	var snapshot model.RegistrySnapshot
	findError := repository.collection.FindOne(contextValue, bson.M{"_id": key}).Decode(&snapshot)
	if errors.Is(findError, mongo.ErrNoDocuments) {
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return nil, registry.ErrSnapshotNotFound
	}
	if findError != nil {
		return nil, findError
	}
	traceMetadata.Found, traceMetadata.Bytes = true, len(snapshot.Payload)
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return []byte(snapshot.Payload), nil
}

// Save 以 upsert 覆寫整份 snapshot
func (repository *RegistrySnapshotRepository) Save(contextValue context.Context, key string, data []byte) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceSnapshotMeta{
		Driver: string(core.StorageMongo),
		Key:    key,
		Bytes:  len(data),
		Op:     "save",
	})

	_, returnedError = repository.collection.UpdateOne(
		contextValue,
		bson.M{"_id": key},
		snapshotUpsert(data, time.Now()),
		options.Update().SetUpsert(true),
	)
	return returnedError
}
