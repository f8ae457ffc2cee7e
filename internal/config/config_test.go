package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data/raw", cfg.Paths.DataRawDir)
	assert.Equal(t, "data/prep", cfg.Paths.DataPrepDir)
	assert.Equal(t, 8, cfg.Panel.LagCount)
	assert.Equal(t, []int{4, 8}, cfg.Panel.RollingWindows)
	assert.InDelta(t, 0.8, cfg.Panel.TrainQuantileCutoff, 1e-9)

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:        "default config is valid",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name: "invalid log level",
			mutate: func(c *Config) {
				c.Logging.Level = "verbose"
			},
			expectError: true,
		},
		{
			name: "zero lag count",
			mutate: func(c *Config) {
				c.Panel.LagCount = 0
			},
			expectError: true,
		},
		{
			name: "excessive lag count",
			mutate: func(c *Config) {
				c.Panel.LagCount = 36
			},
			expectError: true,
		},
		{
			name: "rolling window of one month",
			mutate: func(c *Config) {
				c.Panel.RollingWindows = []int{1}
			},
			expectError: true,
		},
		{
			name: "cutoff above one",
			mutate: func(c *Config) {
				c.Panel.TrainQuantileCutoff = 1.5
			},
			expectError: true,
		},
		{
			name: "empty raw dir",
			mutate: func(c *Config) {
				c.Paths.DataRawDir = ""
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `
logging:
  level: debug
  format: json
  output: console
paths:
  data_raw_dir: /srv/ventas/raw
panel:
  lag_count: 4
  train_quantile_cutoff: 0.7
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	t.Setenv("VENTAS_CONFIG_FILE", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/ventas/raw", cfg.Paths.DataRawDir)
	assert.Equal(t, 4, cfg.Panel.LagCount)
	assert.InDelta(t, 0.7, cfg.Panel.TrainQuantileCutoff, 1e-9)
	// Unset file values fall back to env defaults
	assert.Equal(t, "data/prep", cfg.Paths.DataPrepDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("panel:\n  lag_count: 4\n"), 0644))

	t.Setenv("VENTAS_CONFIG_FILE", configPath)
	t.Setenv("VENTAS_PANEL_LAG_COUNT", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Panel.LagCount)
}
