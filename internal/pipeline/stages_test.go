package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ventascli/internal/config"
	"ventascli/internal/exporter"
)

func writeRawFixtures(t *testing.T, paths *config.Paths) {
	t.Helper()

	require.NoError(t, os.MkdirAll(paths.DataRawDir, 0755))

	fixtures := map[string]string{
		paths.SalesFile: "date,store_id,product_id,unit_price,quantity\n" +
			"02.01.2013,1,10,100,1\n" +
			"15.01.2013,1,10,100,2\n" +
			"03.02.2013,1,10,100,1\n" +
			"05.02.2013,2,20,50,4\n" +
			"07.03.2013,1,10,100,2\n",
		paths.ProductsFile:   "product_id,product_name,category_id\n10,DVD pack,40\n20,Game,30\n",
		paths.StoresFile:     "store_id,store_name\n1,Center\n2,Mall\n",
		paths.CategoriesFile: "category_id,category_name\n40,Movies\n30,Games\n",
	}
	for path, content := range fixtures {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()

	cfg := config.Default()
	cfg.Panel.LagCount = 1
	cfg.Panel.RollingWindows = nil

	paths := config.NewPaths(t.TempDir(), cfg.Paths)
	require.NoError(t, paths.EnsureDirectories())
	writeRawFixtures(t, paths)

	return &Env{
		Config: cfg,
		Paths:  paths,
		Logger: slog.Default(),
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	manager := NewManager(env.Logger, DefaultStages()...)

	require.NoError(t, manager.Run(context.Background(), env))

	// ETL artifacts
	assert.FileExists(t, env.Paths.TransactionsCSV)
	assert.FileExists(t, env.Paths.YearlyControlCSV)

	// Panel artifacts
	rows, windows, err := exporter.ReadPanelCSV(env.Paths.PanelCSV)
	require.NoError(t, err)
	assert.Empty(t, windows)

	// Series (1,10) spans Jan..Mar, series (2,20) has Feb only.
	require.Len(t, rows, 4)
	assert.FileExists(t, env.Paths.PanelParquet)

	// Dataset artifacts: only the Feb row of series (1,10) has both an
	// observed lag and an observed target.
	train, _, err := exporter.ReadPanelCSV(env.Paths.TrainCSV)
	require.NoError(t, err)
	require.Len(t, train, 1)
	assert.Equal(t, int64(1), train[0].StoreID)
	assert.Equal(t, int64(10), train[0].ProductID)
	assert.Equal(t, float64(3), train[0].Lags[0])
	assert.Equal(t, float64(2), train[0].Target)

	valid, _, err := exporter.ReadPanelCSV(env.Paths.ValidationCSV)
	require.NoError(t, err)
	assert.Empty(t, valid)
}

func TestPipeline_StageValidation(t *testing.T) {
	cfg := config.Default()
	paths := config.NewPaths(t.TempDir(), cfg.Paths)
	require.NoError(t, paths.EnsureDirectories())

	env := &Env{Config: cfg, Paths: paths, Logger: slog.Default()}

	t.Run("etl requires raw sales file", func(t *testing.T) {
		err := NewETLStage().Validate(env)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sales")
	})

	t.Run("panel requires prepared transactions", func(t *testing.T) {
		err := NewPanelStage().Validate(env)
		require.Error(t, err)
	})

	t.Run("dataset requires monthly panel", func(t *testing.T) {
		err := NewDatasetStage().Validate(env)
		require.Error(t, err)
	})
}

func TestPipeline_RerunIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	manager := NewManager(env.Logger, DefaultStages()...)
	require.NoError(t, manager.Run(context.Background(), env))

	first, _, err := exporter.ReadPanelCSV(env.Paths.PanelCSV)
	require.NoError(t, err)

	rerun := NewManager(env.Logger, DefaultStages()...)
	require.NoError(t, rerun.Run(context.Background(), env))

	second, _, err := exporter.ReadPanelCSV(env.Paths.PanelCSV)
	require.NoError(t, err)
	// Compare formatted values: assert.Equal uses reflect.DeepEqual, under
	// which the NaN missing-value sentinel never equals itself.
	assert.Equal(t, fmt.Sprintf("%#v", first), fmt.Sprintf("%#v", second))
}
