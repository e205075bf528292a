package logging_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/config"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/logging"
)

func TestNewLogger_LevelFiltering(t *testing.T) {
	logger, closer, err := logging.NewLogger(config.LoggingConfig{Level: "warn", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	defer closer()

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.log")
	logger, closer, err := logging.NewLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	logger.Info("recalculation finished", "updated", 3)
	require.NoError(t, closer())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"recalculation finished"`)
	assert.Contains(t, string(content), `"updated":3`)
}

func TestNewLogger_RejectsUnknownSettings(t *testing.T) {
	_, _, err := logging.NewLogger(config.LoggingConfig{Level: "verbose"})
	assert.Error(t, err)

	_, _, err = logging.NewLogger(config.LoggingConfig{Level: "info", Output: "syslog"})
	assert.Error(t, err)

	_, _, err = logging.NewLogger(config.LoggingConfig{Level: "info", Format: "xml", Output: "stdout"})
	assert.Error(t, err)
}
