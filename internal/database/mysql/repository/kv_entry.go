package repository

import (
	"context"
	"errors"
	"time"

	"scoreboard/internal/core"
	client "scoreboard/internal/database/client"
	"scoreboard/internal/database/mysql/model"
	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntryRepository 以 kv_entries 表存放 registry snapshot
type KVEntryRepository struct {
	trace *telemetry.Trace
	db    *gorm.DB
}

func NewKVEntryRepository(trace *telemetry.Trace, mysqlClient *client.MySQLClient) (*KVEntryRepository, error) {
	if !mysqlClient.Enabled() {
		return nil, errors.New("mysql storage selected but MYSQL__DSN is not set")
	}
	return newKVEntryRepository(trace, mysqlClient.DB())
}

func newKVEntryRepository(trace *telemetry.Trace, db *gorm.DB) (*KVEntryRepository, error) {
	if err := db.AutoMigrate(&model.KVEntry{}); err != nil {
		return nil, err
	}
	return &KVEntryRepository{trace: trace, db: db}, nil
}

func (repository *KVEntryRepository) Load(contextValue context.Context, key string) (_ []byte, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		if errors.Is(returnedError, registry.ErrSnapshotNotFound) {
			endSpan(nil)
			return
		}
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceSnapshotMeta{Driver: string(core.StorageMySQL), Key: key, Op: "load"}
	var entry model.KVEntry
	result := repository.db.WithContext(contextValue).Where("`key` = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return nil, registry.ErrSnapshotNotFound
	}
	traceMetadata.Found, traceMetadata.Bytes = true, len(entry.Value)
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return entry.Value, nil
}

// Save 以 INSERT ... ON DUPLICATE KEY UPDATE 覆寫
func (repository *KVEntryRepository) Save(contextValue context.Context, key string, data []byte) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceSnapshotMeta{
		Driver: string(core.StorageMySQL),
		Key:    key,
		Bytes:  len(data),
		Op:     "save",
	})

	entry := model.KVEntry{Key: key, Value: data, UpdatedAt: time.Now().UTC()}
	returnedError = repository.db.WithContext(contextValue).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	return returnedError
}
