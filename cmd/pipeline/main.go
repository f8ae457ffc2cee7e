package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"ventascli/internal/config"
	"ventascli/internal/infrastructure"
	"ventascli/internal/pipeline"
)

func main() {
	rootDir := flag.String("root", ".", "pipeline root directory")
	workbookDir := flag.String("xlsx-dir", "", "optional directory of Excel workbooks to ingest during ETL")
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
		cfg.Logging.FilePath = paths.GetLogPath("pipeline.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	logger.InfoContext(ctx, "Starting full pipeline run",
		slog.String("run_id", runID),
		slog.String("root", *rootDir))

	env := &pipeline.Env{
		Config:      cfg,
		Paths:       paths,
		Logger:      logger,
		WorkbookDir: *workbookDir,
	}

	manager := pipeline.NewManager(logger, pipeline.DefaultStages()...)
	if err := manager.Run(ctx, env); err != nil {
		logger.ErrorContext(ctx, "Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("Pipeline run complete")
}
