package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths_RelativeDirs(t *testing.T) {
	paths := NewPaths("/srv/ventas", Default().Paths)

	assert.Equal(t, "/srv/ventas", paths.RootDir)
	assert.Equal(t, filepath.Join("/srv/ventas", "data", "raw"), paths.DataRawDir)
	assert.Equal(t, filepath.Join("/srv/ventas", "data", "prep"), paths.DataPrepDir)
	assert.Equal(t, filepath.Join("/srv/ventas", "artifacts", "reports"), paths.ReportsDir)

	assert.Equal(t, filepath.Join(paths.DataRawDir, "sales_train.csv"), paths.SalesFile)
	assert.Equal(t, filepath.Join(paths.DataPrepDir, "monthly_panel.csv"), paths.PanelCSV)
	assert.Equal(t, filepath.Join(paths.DataPrepDir, "monthly_panel.parquet"), paths.PanelParquet)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "yearly_control.csv"), paths.YearlyControlCSV)
}

func TestNewPaths_AbsoluteDirWins(t *testing.T) {
	cfg := Default().Paths
	cfg.DataRawDir = "/mnt/shared/raw"

	paths := NewPaths("/srv/ventas", cfg)

	assert.Equal(t, "/mnt/shared/raw", paths.DataRawDir)
	assert.Equal(t, filepath.Join("/mnt/shared/raw", "sales_train.csv"), paths.SalesFile)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()

	paths := NewPaths(tempDir, Default().Paths)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{
		paths.DataPrepDir,
		paths.ArtifactsDir,
		paths.LogsDir,
		paths.ModelsDir,
		paths.PredictionsDir,
		paths.ReportsDir,
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}

	// Raw input directory is never created implicitly
	_, err := os.Stat(paths.DataRawDir)
	assert.True(t, os.IsNotExist(err))
}

func TestPaths_Getters(t *testing.T) {
	paths := NewPaths("/root", Default().Paths)

	assert.Equal(t, filepath.Join("/root", "data", "raw", "extra.csv"), paths.GetRawPath("extra.csv"))
	assert.Equal(t, filepath.Join("/root", "data", "prep", "x.csv"), paths.GetPrepPath("x.csv"))
	assert.Equal(t, filepath.Join("/root", "artifacts", "reports", "r.csv"), paths.GetReportPath("r.csv"))
	assert.Equal(t, filepath.Join("/root", "artifacts", "logs", "etl.log"), paths.GetLogPath("etl.log"))
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(tempDir, "absent.txt")))
}
