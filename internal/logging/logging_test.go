package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/svmxplorer/internal/config"
)

func TestNewWritesJSONWithSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	logger, closeFn, err := New(config.LogConfig{Path: path, Level: "debug", MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("refreshed")
	logger.Info("cleared")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "refreshed", first["msg"])
	require.Equal(t, "debug", first["level"])
	require.NotEmpty(t, first["session"])
	require.Equal(t, first["session"], second["session"])
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closeFn, err := New(config.LogConfig{Path: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "dropped")
	require.Contains(t, string(data), "kept")
}

func TestNewEmptyPathIsNop(t *testing.T) {
	logger, closeFn, err := New(config.LogConfig{})
	require.NoError(t, err)
	logger.Info("nowhere")
	closeFn()
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{Path: filepath.Join(t.TempDir(), "app.log"), Level: "loud"})
	require.Error(t, err)
}
