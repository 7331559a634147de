package logger

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuild_ProductionWritesJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "appgate.log")

	l, err := build("production", file)
	require.NoError(t, err)

	l.Info("blocked", zap.Int("serial", 1))
	l.Debug("dropped below info")
	_ = l.Sync()

	content, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "blocked", entry["msg"])
	assert.Equal(t, float64(1), entry["serial"])
}

func TestBuild_DevelopmentKeepsDebug(t *testing.T) {
	file := filepath.Join(t.TempDir(), "appgate.log")

	l, err := build("development", file)
	require.NoError(t, err)

	l.Debug("scanning roots")
	_ = l.Sync()

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "scanning roots")
	assert.Contains(t, string(content), "DEBUG")
}

func TestGetLogger_Uninitialized(t *testing.T) {
	if logger != nil {
		t.Skip("global logger already initialized")
	}
	assert.Panics(t, func() { GetLogger() })
}
