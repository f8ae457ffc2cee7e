package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Panel   PanelConfig   `yaml:"panel" envconfig:"PANEL"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig names every artifact location explicitly. Nothing in the
// pipeline relies on working-directory conventions: the caller decides where
// each artifact lives.
type PathsConfig struct {
	DataRawDir     string `yaml:"data_raw_dir" envconfig:"DATA_RAW_DIR" validate:"required"`
	DataPrepDir    string `yaml:"data_prep_dir" envconfig:"DATA_PREP_DIR" validate:"required"`
	ArtifactsDir   string `yaml:"artifacts_dir" envconfig:"ARTIFACTS_DIR" validate:"required"`
	LogsDir        string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	ModelsDir      string `yaml:"models_dir" envconfig:"MODELS_DIR"`
	PredictionsDir string `yaml:"predictions_dir" envconfig:"PREDICTIONS_DIR"`
	ReportsDir     string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
}

// PanelConfig contains feature construction and split parameters
type PanelConfig struct {
	LagCount            int     `yaml:"lag_count" envconfig:"LAG_COUNT" validate:"gte=1,lte=24"`
	RollingWindows      []int   `yaml:"rolling_windows" envconfig:"ROLLING_WINDOWS"`
	TrainQuantileCutoff float64 `yaml:"train_quantile_cutoff" envconfig:"TRAIN_QUANTILE_CUTOFF" validate:"gt=0,lt=1"`
}

// Load loads configuration with env > file > defaults precedence: it starts
// from Default(), overlays the optional YAML file, then applies environment
// variables (VENTAS_ prefix), and validates the result.
func Load() (*Config, error) {
	cfg := *Default()

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		overlay(&cfg, fileConfig)
	}

	if err := envconfig.Process("VENTAS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overlay copies non-zero file values over the defaults
func overlay(dst, src *Config) {
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	if src.Logging.Output != "" {
		dst.Logging.Output = src.Logging.Output
	}
	if src.Logging.FilePath != "" {
		dst.Logging.FilePath = src.Logging.FilePath
	}
	if src.Paths.DataRawDir != "" {
		dst.Paths.DataRawDir = src.Paths.DataRawDir
	}
	if src.Paths.DataPrepDir != "" {
		dst.Paths.DataPrepDir = src.Paths.DataPrepDir
	}
	if src.Paths.ArtifactsDir != "" {
		dst.Paths.ArtifactsDir = src.Paths.ArtifactsDir
	}
	if src.Paths.LogsDir != "" {
		dst.Paths.LogsDir = src.Paths.LogsDir
	}
	if src.Paths.ModelsDir != "" {
		dst.Paths.ModelsDir = src.Paths.ModelsDir
	}
	if src.Paths.PredictionsDir != "" {
		dst.Paths.PredictionsDir = src.Paths.PredictionsDir
	}
	if src.Paths.ReportsDir != "" {
		dst.Paths.ReportsDir = src.Paths.ReportsDir
	}
	if src.Panel.LagCount != 0 {
		dst.Panel.LagCount = src.Panel.LagCount
	}
	if len(src.Panel.RollingWindows) != 0 {
		dst.Panel.RollingWindows = src.Panel.RollingWindows
	}
	if src.Panel.TrainQuantileCutoff != 0 {
		dst.Panel.TrainQuantileCutoff = src.Panel.TrainQuantileCutoff
	}
}

// Validate validates the configuration using struct tags plus the checks
// the tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	for _, w := range c.Panel.RollingWindows {
		if w < 2 {
			return fmt.Errorf("rolling window must be at least 2 months, got %d", w)
		}
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if env := os.Getenv("VENTAS_CONFIG_FILE"); env != "" {
		return env
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "artifacts/logs/pipeline.log",
		},
		Paths: PathsConfig{
			DataRawDir:     "data/raw",
			DataPrepDir:    "data/prep",
			ArtifactsDir:   "artifacts",
			LogsDir:        "artifacts/logs",
			ModelsDir:      "artifacts/models",
			PredictionsDir: "artifacts/predictions",
			ReportsDir:     "artifacts/reports",
		},
		Panel: PanelConfig{
			LagCount:            8,
			RollingWindows:      []int{4, 8},
			TrainQuantileCutoff: 0.8,
		},
	}
}
