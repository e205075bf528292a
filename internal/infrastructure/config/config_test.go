package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_ReadsYAMLAndAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  type: sqlite
  path: /tmp/pricing-test.db
pricing:
  transport_cost: 300
  structure_cost: 200
  margin_pct: 5
store:
  rate_limit:
    requests: 20
`)

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/tmp/pricing-test.db", cfg.Database.Path)
	assert.Equal(t, 300.0, cfg.Pricing.TransportCost)
	assert.Equal(t, 200.0, cfg.Pricing.StructureCost)
	assert.Equal(t, 5.0, cfg.Pricing.MarginPercent)
	assert.Equal(t, 20.0, cfg.Store.RateLimit.Requests)
	assert.Equal(t, 10, cfg.Store.RateLimit.Burst)
	assert.Equal(t, 15*time.Minute, cfg.Store.WatchInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  type: sqlite
  path: /tmp/pricing-test.db
pricing:
  margin_pct: 5
`)
	t.Setenv("AP_PRICING_MARGIN_PCT", "8")
	t.Setenv("AP_LOGGING_LEVEL", "debug")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.Pricing.MarginPercent)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_DatabaseURLOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  type: postgres\n")
	t.Setenv("DATABASE_URL", "postgresql://pricing:secret@db:5432/pricing")

	cfg, err := config.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "postgresql://pricing:secret@db:5432/pricing", cfg.Database.URL)
}

func TestLoadConfig_RejectsInvalidPricing(t *testing.T) {
	tests := []struct {
		name    string
		pricing string
	}{
		{"negative transport", "transport_cost: -1"},
		{"negative structure", "structure_cost: -50"},
		{"margin above one hundred", "margin_pct: 120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "database:\n  type: sqlite\n  path: x.db\npricing:\n  "+tt.pricing+"\n")

			_, err := config.LoadConfig(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfig_RejectsUnknownDatabaseType(t *testing.T) {
	path := writeConfig(t, "database:\n  type: mysql\n")

	_, err := config.LoadConfig(path)

	require.Error(t, err)
}

func TestLoadConfigOrDefault_FallsBackOnError(t *testing.T) {
	path := writeConfig(t, "database:\n  type: mysql\n")

	cfg := config.LoadConfigOrDefault(path)

	require.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Zero(t, cfg.Pricing.MarginPercent)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "postgres"
	cfg.Logging.Format = "json"

	config.SetDefaults(cfg)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Empty(t, cfg.Database.Path)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, time.Minute, cfg.Metrics.StorePollInterval)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
}
