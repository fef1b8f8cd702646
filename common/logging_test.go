package common

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFileName(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "log-2024-03-05-14-07-09.log", LogFileName(ts))
}

func TestSetupLogger_WritesLogFile(t *testing.T) {
	dir := t.TempDir()

	logger := SetupLogger(&LoggingOpts{
		JSON:    true,
		Service: "review-gateway",
		Version: "test",
		LogDir:  dir,
	})
	logger.Info("Gateway started")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "log-"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Gateway started"`)
	assert.Contains(t, string(data), `"service":"review-gateway"`)
	assert.Contains(t, string(data), `"version":"test"`)
}

func TestSetupLogger_DebugLevel(t *testing.T) {
	logger := SetupLogger(&LoggingOpts{Debug: true})
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))

	logger = SetupLogger(&LoggingOpts{})
	assert.False(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}
