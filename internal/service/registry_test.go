package service

import (
	"context"
	"strings"
	"testing"

	"scoreboard/internal/core"
	cErr "scoreboard/internal/pkg/error"
	"scoreboard/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRegistry(t *testing.T, svc *RegistryService, accounts ...string) {
	t.Helper()
	for _, account := range accounts {
		_, err := svc.store.Upsert(context.Background(), registry.UserPatch{Account: registry.String(account)})
		require.NoError(t, err)
	}
}

func TestRegistryService_ListViews(t *testing.T) {
	svc := newTestRegistryService(newTestStore(t))
	seedRegistry(t, svc, "a", "b", "c")
	ctx := context.Background()

	_, err := svc.SetBlacklisted(ctx, "admin", "b", true)
	require.NoError(t, err)

	all := svc.ListUsers(ctx, "")
	assert.Equal(t, core.RegistryViewAll, all.View)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 1, all.Blacklisted)
	assert.Len(t, all.Users, 3)

	black := svc.ListUsers(ctx, core.RegistryViewBlacklist)
	require.Len(t, black.Users, 1)
	assert.Equal(t, "b", black.Users[0].ID)
	assert.True(t, black.Users[0].IsBlacklisted)
}

func TestRegistryService_GetAndDelete(t *testing.T) {
	svc := newTestRegistryService(newTestStore(t))
	seedRegistry(t, svc, "a")
	ctx := context.Background()

	rec, err := svc.GetUser(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Account)

	resp, err := svc.DeleteUser(ctx, "admin", "a")
	require.NoError(t, err)
	assert.True(t, resp.Existed)

	_, err = svc.GetUser(ctx, "a")
	assert.Equal(t, cErr.NOT_FOUND, cErr.From(err).ErrorCode())
	_, err = svc.DeleteUser(ctx, "admin", "a")
	assert.Equal(t, cErr.NOT_FOUND, cErr.From(err).ErrorCode())
}

func TestRegistryService_BlacklistUnknownKey(t *testing.T) {
	svc := newTestRegistryService(newTestStore(t))

	resp, err := svc.SetBlacklisted(context.Background(), "admin", "ghost", true)
	require.NoError(t, err)
	assert.False(t, resp.Existed)
	assert.True(t, svc.store.IsBlacklisted("ghost"))

	_, err = svc.SetBlacklisted(context.Background(), "admin", " ", true)
	require.Error(t, err)
}

func TestRegistryService_ExportImportRoundTrip(t *testing.T) {
	source := newTestRegistryService(newTestStore(t))
	seedRegistry(t, source, "a", "b")
	ctx := context.Background()
	_, err := source.SetBlacklisted(ctx, "admin", "a", true)
	require.NoError(t, err)

	exported, err := source.Export(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(exported.FileName, "user_data_"))
	assert.True(t, strings.HasSuffix(exported.FileName, ".json"))

	target := newTestRegistryService(newTestStore(t))
	result, err := target.Import(ctx, "admin", exported.Content)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ImportedCount)

	users, blacklisted := target.Stats()
	assert.Equal(t, 2, users)
	assert.Equal(t, 1, blacklisted)
}

func TestRegistryService_ImportRejected(t *testing.T) {
	svc := newTestRegistryService(newTestStore(t))
	seedRegistry(t, svc, "a")

	_, err := svc.Import(context.Background(), "admin", `{"nope": true}`)
	require.Error(t, err)
	assert.Equal(t, cErr.IMPORT_REJECTED, cErr.From(err).ErrorCode())

	users, _ := svc.Stats()
	assert.Equal(t, 1, users)
}

func TestRegistryService_Clear(t *testing.T) {
	svc := newTestRegistryService(newTestStore(t))
	seedRegistry(t, svc, "a", "b")
	_, err := svc.SetBlacklisted(context.Background(), "admin", "a", true)
	require.NoError(t, err)

	svc.Clear(context.Background(), "admin")
	users, blacklisted := svc.Stats()
	assert.Equal(t, 0, users)
	assert.Equal(t, 0, blacklisted)
}
