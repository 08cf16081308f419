package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_WritesConsoleAndFile(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, logPath, err := NewLogger("test", logsDir, &console)
	require.NoError(t, err)

	logger.Debug("tier processed", zap.Int("score", 2))
	logger.Info("groups allocated", zap.Int("groups", 4))
	require.NoError(t, logger.Sync())

	assert.True(t, strings.HasPrefix(filepath.Base(logPath), "test_"))

	// Console only gets Info and above
	assert.Contains(t, console.String(), "groups allocated")
	assert.NotContains(t, console.String(), "tier processed")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "tier processed", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["env"])
	assert.EqualValues(t, 2, entry["score"])
	assert.Contains(t, entry, "timestamp")
}
