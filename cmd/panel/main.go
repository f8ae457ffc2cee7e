package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"ventascli/internal/config"
	"ventascli/internal/dataprocessing"
	"ventascli/internal/exporter"
	"ventascli/internal/infrastructure"
	"ventascli/internal/panel"
)

func main() {
	rootDir := flag.String("root", ".", "pipeline root directory")
	inFile := flag.String("in", "", "prepared transactions CSV (defaults to data/prep/transactions.csv under root)")
	lagCount := flag.Int("lags", 0, "number of monthly lag features (defaults to configured value)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths := config.NewPaths(*rootDir, cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.GetLogPath("panel.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	if *inFile == "" {
		*inFile = paths.TransactionsCSV
	}
	if *lagCount == 0 {
		*lagCount = cfg.Panel.LagCount
	}

	logger.InfoContext(ctx, "Starting panel build",
		slog.String("run_id", runID),
		slog.String("input", *inFile),
		slog.Int("lag_count", *lagCount),
		slog.Any("rolling_windows", cfg.Panel.RollingWindows))

	loader := dataprocessing.NewLoader(logger)
	transactions, err := loader.ReadTransactions(*inFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read transactions", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Read %d transactions\n", len(transactions))

	rows, err := panel.AggregateMonthly(ctx, transactions, *lagCount)
	if err != nil {
		logger.ErrorContext(ctx, "Aggregation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Monthly panel built", slog.Int("rows", len(rows)))

	rows, err = panel.WithRollingMeans(rows, cfg.Panel.RollingWindows)
	if err != nil {
		logger.ErrorContext(ctx, "Rolling mean computation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WritePanelCSV(paths.PanelCSV, rows, cfg.Panel.RollingWindows); err != nil {
		logger.ErrorContext(ctx, "Failed to write panel CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := writer.WritePanelParquet(paths.PanelParquet, rows, cfg.Panel.RollingWindows); err != nil {
		logger.ErrorContext(ctx, "Failed to write panel Parquet", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Panel build complete",
		slog.Int("rows", len(rows)),
		slog.String("csv", paths.PanelCSV),
		slog.String("parquet", paths.PanelParquet))
	fmt.Printf("Panel build complete: %d rows\n", len(rows))
}
