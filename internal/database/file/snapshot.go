package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scoreboard/internal/core"
	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"
)

// SnapshotRepository 把每個 key 存成 <dir>/<key>.json，寫入時先寫暫存檔再 rename
type SnapshotRepository struct {
	trace *telemetry.Trace
	dir   string
}

func NewSnapshotRepository(trace *telemetry.Trace, dir string) (*SnapshotRepository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file storage requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &SnapshotRepository{trace: trace, dir: dir}, nil
}

func (repository *SnapshotRepository) Load(contextValue context.Context, key string) (_ []byte, returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		if errors.Is(returnedError, registry.ErrSnapshotNotFound) {
			endSpan(nil)
			return
		}
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceSnapshotMeta{Driver: string(core.StorageFile), Key: key, Op: "load"}
	data, readError := os.ReadFile(repository.path(key))
	if errors.Is(readError, os.ErrNotExist) {
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
		return nil, registry.ErrSnapshotNotFound
	}
	if readError != nil {
		return nil, readError
	}
	traceMetadata.Found, traceMetadata.Bytes = true, len(data)
	repository.trace.ApplyTraceAttributes(span, traceMetadata)
	return data, nil
}

func (repository *SnapshotRepository) Save(contextValue context.Context, key string, data []byte) (returnedError error) {
	_, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceSnapshotMeta{
		Driver: string(core.StorageFile),
		Key:    key,
		Bytes:  len(data),
		Op:     "save",
	})

	tmp, createError := os.CreateTemp(repository.dir, "."+key+"-*.tmp")
	if createError != nil {
		return createError
	}
	tmpName := tmp.Name()
	defer func() {
		if returnedError != nil {
			_ = os.Remove(tmpName)
		}
	}()
	if _, returnedError = tmp.Write(data); returnedError != nil {
		_ = tmp.Close()
		return returnedError
	}
	if returnedError = tmp.Sync(); returnedError != nil {
		_ = tmp.Close()
		return returnedError
	}
	if returnedError = tmp.Close(); returnedError != nil {
		return returnedError
	}
	returnedError = os.Rename(tmpName, repository.path(key))
	return returnedError
}

// Dir 回傳 snapshot 目錄
func (repository *SnapshotRepository) Dir() string {
	return repository.dir
}

func (repository *SnapshotRepository) path(key string) string {
	return filepath.Join(repository.dir, filepath.Base(key)+".json")
}
