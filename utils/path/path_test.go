package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootPath_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCOREBOARD_ROOT", dir)
	assert.Equal(t, dir, RootPath())
	assert.Equal(t, filepath.Join(dir, "data"), DataDir("data"))
}

func TestRootPath_FindsModule(t *testing.T) {
	t.Setenv("SCOREBOARD_ROOT", "")
	root := RootPath()
	ok, err := Exists(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	ok, err := Exists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
