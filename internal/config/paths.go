package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all resolved pipeline paths.
// This is the single source of truth for every artifact the pipeline reads
// or writes; no stage relies on implicit working-directory conventions.
type Paths struct {
	RootDir        string
	DataRawDir     string
	DataPrepDir    string
	ArtifactsDir   string
	LogsDir        string
	ModelsDir      string
	PredictionsDir string
	ReportsDir     string

	// Well-known raw input files
	SalesFile      string
	ProductsFile   string
	StoresFile     string
	CategoriesFile string

	// Well-known derived artifacts
	TransactionsCSV  string
	YearlyControlCSV string
	PanelCSV         string
	PanelParquet     string
	TrainCSV         string
	ValidationCSV    string
}

// NewPaths resolves all pipeline paths from a PathsConfig against the given
// root directory. Relative directories in the config are taken relative to
// root; absolute directories are used as-is.
func NewPaths(root string, cfg PathsConfig) *Paths {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(root, dir)
	}

	rawDir := resolve(cfg.DataRawDir)
	prepDir := resolve(cfg.DataPrepDir)
	artifactsDir := resolve(cfg.ArtifactsDir)
	reportsDir := resolve(cfg.ReportsDir)
	predictionsDir := resolve(cfg.PredictionsDir)

	return &Paths{
		RootDir:        root,
		DataRawDir:     rawDir,
		DataPrepDir:    prepDir,
		ArtifactsDir:   artifactsDir,
		LogsDir:        resolve(cfg.LogsDir),
		ModelsDir:      resolve(cfg.ModelsDir),
		PredictionsDir: predictionsDir,
		ReportsDir:     reportsDir,

		SalesFile:      filepath.Join(rawDir, "sales_train.csv"),
		ProductsFile:   filepath.Join(rawDir, "products.csv"),
		StoresFile:     filepath.Join(rawDir, "stores.csv"),
		CategoriesFile: filepath.Join(rawDir, "categories.csv"),

		TransactionsCSV:  filepath.Join(prepDir, "transactions.csv"),
		YearlyControlCSV: filepath.Join(reportsDir, "yearly_control.csv"),
		PanelCSV:         filepath.Join(prepDir, "monthly_panel.csv"),
		PanelParquet:     filepath.Join(prepDir, "monthly_panel.parquet"),
		TrainCSV:         filepath.Join(prepDir, "train.csv"),
		ValidationCSV:    filepath.Join(prepDir, "validation.csv"),
	}
}

// EnsureDirectories creates all output directories if they don't exist.
// The raw data directory is deliberately excluded: missing inputs are an
// error, not something to create.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataPrepDir,
		p.ArtifactsDir,
		p.LogsDir,
		p.ModelsDir,
		p.PredictionsDir,
		p.ReportsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRawPath returns the path of a file inside the raw data directory
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.DataRawDir, filename)
}

// GetPrepPath returns the path of a file inside the prepared data directory
func (p *Paths) GetPrepPath(filename string) string {
	return filepath.Join(p.DataPrepDir, filename)
}

// GetReportPath returns the path of a file inside the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path of a file inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
