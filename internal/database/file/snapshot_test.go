package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scoreboard/internal/registry"
	"scoreboard/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotRepository_LoadSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo, err := NewSnapshotRepository(&telemetry.Trace{}, dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.Load(ctx, registry.StorageKey)
	assert.ErrorIs(t, err, registry.ErrSnapshotNotFound)

	require.NoError(t, repo.Save(ctx, registry.StorageKey, []byte(`{"users":[]}`)))
	require.NoError(t, repo.Save(ctx, registry.StorageKey, []byte(`{"users":[],"blacklist":["a"]}`)))

	data, err := repo.Load(ctx, registry.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[],"blacklist":["a"]}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "userDataStorage.json", entries[0].Name())
}

func TestSnapshotRepository_RequiresDir(t *testing.T) {
	_, err := NewSnapshotRepository(&telemetry.Trace{}, " ")
	assert.Error(t, err)
}

func TestSnapshotRepository_RegistrySurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewSnapshotRepository(&telemetry.Trace{}, dir)
	require.NoError(t, err)
	store := registry.NewStore(repo, zap.NewNop())
	require.NoError(t, store.Init(ctx))
	_, err = store.Upsert(ctx, registry.UserPatch{Account: registry.String("13800000000"), Name: registry.String("张三")})
	require.NoError(t, err)
	store.SetBlacklisted(ctx, "13800000000", true)

	reopened := registry.NewStore(repo, zap.NewNop())
	require.NoError(t, reopened.Init(ctx))

	all := reopened.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, "张三", all[0].Name)
	assert.True(t, reopened.IsBlacklisted("13800000000"))
}
