package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"scoreboard/config"
	"scoreboard/internal/database/client"
	fluentdRepo "scoreboard/internal/database/fluentd/repository"
	"scoreboard/internal/registry"
	"scoreboard/internal/service"
	"scoreboard/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*UsersHandler, *registry.Store) {
	t.Helper()
	store := registry.NewStore(registry.NewMemoryPersister(), zap.NewNop())
	require.NoError(t, store.Init(context.Background()))
	auditor := fluentdRepo.NewLogRepository(&config.Configuration{}, &client.NoopClient{})
	registryService := service.NewRegistryService(&telemetry.Trace{}, &telemetry.Metric{}, zap.NewNop(), store, auditor)
	return NewUsersHandler(zap.NewNop(), registryService), store
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetContext(context.Background())
	return cmd, out
}

func seed(t *testing.T, store *registry.Store, id, account string) {
	t.Helper()
	_, err := store.Upsert(context.Background(), registry.UserPatch{ID: &id, Account: &account})
	require.NoError(t, err)
}

func TestUsersHandler_ListAndBlacklist(t *testing.T) {
	handler, store := newTestHandler(t)
	seed(t, store, "u-1", "13800000001")
	seed(t, store, "u-2", "13800000002")

	cmd, out := newTestCmd()
	require.NoError(t, handler.Blacklist(cmd, "u-2", true))
	assert.True(t, store.IsBlacklisted("13800000002"))

	out.Reset()
	require.NoError(t, handler.List(cmd, true))
	assert.Contains(t, out.String(), "u-2")
	assert.NotContains(t, out.String(), "u-1")
	assert.Contains(t, out.String(), "total 2, blacklisted 1")

	require.NoError(t, handler.Blacklist(cmd, "u-2", false))
	assert.False(t, store.IsBlacklisted("13800000002"))
}

func TestUsersHandler_ExportImportRoundTrip(t *testing.T) {
	handler, store := newTestHandler(t)
	seed(t, store, "u-1", "13800000001")

	file := filepath.Join(t.TempDir(), "users.json")
	cmd, _ := newTestCmd()
	require.NoError(t, handler.Export(cmd, file))

	handler.Clear(cmd)
	users, _ := store.Stats()
	assert.Equal(t, 0, users)

	require.NoError(t, handler.Import(cmd, file))
	_, ok := store.Get("u-1")
	assert.True(t, ok)
}

func TestUsersHandler_ImportRejectsInvalidFile(t *testing.T) {
	handler, _ := newTestHandler(t)
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte("not json"), 0o644))

	cmd, _ := newTestCmd()
	assert.Error(t, handler.Import(cmd, file))
	assert.Error(t, handler.Import(cmd, filepath.Join(t.TempDir(), "missing.json")))
}

func TestUsersHandler_DeleteMissing(t *testing.T) {
	handler, _ := newTestHandler(t)
	cmd, _ := newTestCmd()
	assert.Error(t, handler.Delete(cmd, "nobody"))
}
