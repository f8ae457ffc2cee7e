package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"ventascli/internal/config"
	"ventascli/internal/exporter"
	"ventascli/internal/infrastructure"
	"ventascli/internal/panel"
)

func main() {
	rootDir := flag.String("root", ".", "pipeline root directory")
	inFile := flag.String("in", "", "monthly panel CSV (defaults to data/prep/monthly_panel.csv under root)")
	cutoff := flag.Float64("cutoff", 0, "temporal split quantile (defaults to configured value)")
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
		cfg.Logging.FilePath = paths.GetLogPath("dataset.log")
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
		*inFile = paths.PanelCSV
	}
	if *cutoff == 0 {
		*cutoff = cfg.Panel.TrainQuantileCutoff
	}

	logger.InfoContext(ctx, "Starting dataset build",
		slog.String("run_id", runID),
		slog.String("input", *inFile),
		slog.Float64("cutoff", *cutoff))

	rows, windows, err := exporter.ReadPanelCSV(*inFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read panel", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Read %d panel rows\n", len(rows))

	trainable := panel.TrainingRows(rows)
	logger.InfoContext(ctx, "Trainable rows selected",
		slog.Int("panel_rows", len(rows)),
		slog.Int("trainable_rows", len(trainable)))

	train, valid := panel.TemporalSplit(trainable, *cutoff)

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WritePanelCSV(paths.TrainCSV, train, windows); err != nil {
		logger.ErrorContext(ctx, "Failed to write training set", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := writer.WritePanelCSV(paths.ValidationCSV, valid, windows); err != nil {
		logger.ErrorContext(ctx, "Failed to write validation set", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Dataset build complete",
		slog.Int("train_rows", len(train)),
		slog.Int("validation_rows", len(valid)),
		slog.String("train", paths.TrainCSV),
		slog.String("validation", paths.ValidationCSV))
	fmt.Printf("Dataset build complete: %d train rows, %d validation rows\n", len(train), len(valid))
}
