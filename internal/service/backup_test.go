package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scoreboard/config"
	"scoreboard/internal/database/client"
	minioRepo "scoreboard/internal/database/minio/repository"
	"scoreboard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackupService_WritesLocalFile(t *testing.T) {
	dir := t.TempDir()
	conf := &config.Configuration{Backup: config.Backup{Dir: filepath.Join(dir, "nested")}}

	minioClient, err := client.NewMinioClient(zap.NewNop(), conf)
	require.NoError(t, err)
	remote := minioRepo.NewBackupRepository(&telemetry.Trace{}, minioClient)
	require.False(t, remote.Enabled())

	registryService := newTestRegistryService(newTestStore(t))
	seedRegistry(t, registryService, "a", "b")

	svc := NewBackupService(&telemetry.Trace{}, &telemetry.Metric{}, zap.NewNop(), conf, registryService, remote)
	resp, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, resp.ObjectKey)
	assert.Equal(t, filepath.Join(dir, "nested", resp.FileName), resp.LocalPath)

	content, err := os.ReadFile(resp.LocalPath)
	require.NoError(t, err)
	assert.Len(t, content, resp.Bytes)
	assert.Contains(t, string(content), `"version": "1.0"`)
}

func TestBackupService_DefaultDir(t *testing.T) {
	t.Setenv("SCOREBOARD_ROOT", t.TempDir())
	svc := NewBackupService(&telemetry.Trace{}, &telemetry.Metric{}, zap.NewNop(), &config.Configuration{}, nil, nil)
	assert.Equal(t, "backups", filepath.Base(svc.dir))
}
