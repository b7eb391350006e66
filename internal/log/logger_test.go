package log

import (
	"os"
	"path/filepath"
	"testing"

	"scoreboard/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "app.log")

	logger, err := NewLogger(&config.Configuration{Log: config.Log{Level: "info", File: file}})
	require.NoError(t, err)

	logger.Info("registry snapshot loaded")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"registry snapshot loaded"`)
}
