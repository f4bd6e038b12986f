package contract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ration.log")

	logger := NewLogger(zapcore.DebugLevel, file)
	logger.Debug("solver finished", zap.Float64("objective", 30.66))
	logger.Info("below level is not filtered at debug")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "solver finished", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "ration", entry["logger"])
	assert.Equal(t, 30.66, entry["objective"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLogger_LevelFilter(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ration.log")

	logger := NewLogger(zapcore.WarnLevel, file)
	logger.Debug("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewLogger_Stderr(t *testing.T) {
	logger := NewLogger(zapcore.ErrorLevel, "")
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
}
