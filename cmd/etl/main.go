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
	"ventascli/internal/files"
	"ventascli/internal/infrastructure"
)

func main() {
	rootDir := flag.String("root", ".", "pipeline root directory")
	salesFile := flag.String("sales", "", "raw sales CSV (defaults to data/raw/sales_train.csv under root)")
	workbook := flag.String("xlsx", "", "optional Excel workbook, or a directory of workbooks, with additional sales records")
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
		cfg.Logging.FilePath = paths.GetLogPath("etl.log")
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	if *salesFile == "" {
		*salesFile = paths.SalesFile
	}

	logger.InfoContext(ctx, "Starting sales ETL",
		slog.String("run_id", runID),
		slog.String("root", *rootDir),
		slog.String("sales_file", *salesFile))

	loader := dataprocessing.NewLoader(logger)

	ref, err := loader.LoadReferenceData(paths.ProductsFile, paths.StoresFile, paths.CategoriesFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load reference data", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Printf("Loaded reference data: %d products, %d stores, %d categories\n",
		len(ref.Products), len(ref.Stores), len(ref.Categories))

	transactions, err := loader.LoadTransactions(*salesFile, ref)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load transactions", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *workbook != "" {
		for _, path := range resolveWorkbooks(ctx, logger, *rootDir, *workbook) {
			extra, err := loader.ParseWorkbook(path)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to parse workbook",
					slog.String("workbook", path),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
			logger.InfoContext(ctx, "Workbook records loaded",
				slog.String("workbook", path),
				slog.Int("count", len(extra)))
			transactions = append(transactions, extra...)
		}
	}

	fmt.Printf("Loaded %d transactions\n", len(transactions))

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteTransactions(paths.TransactionsCSV, transactions); err != nil {
		logger.ErrorContext(ctx, "Failed to write transactions artifact", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Transactions artifact written",
		slog.String("path", paths.TransactionsCSV),
		slog.Int("count", len(transactions)))

	summarizer := dataprocessing.NewControlSummarizer(logger)
	controls, err := summarizer.GenerateFromTransactions(ctx, transactions)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate yearly control", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := summarizer.WriteCSV(ctx, paths.YearlyControlCSV, controls); err != nil {
		logger.ErrorContext(ctx, "Failed to write yearly control CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := summarizer.WriteJSON(ctx, paths.GetReportPath("yearly_control.json"), controls); err != nil {
		logger.ErrorContext(ctx, "Failed to write yearly control JSON", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "ETL complete",
		slog.Int("transactions", len(transactions)),
		slog.Int("years", len(controls)))
	fmt.Println("ETL complete")
}

// resolveWorkbooks expands the -xlsx argument: a single file is returned
// as-is, a directory is scanned for workbooks in name order.
func resolveWorkbooks(ctx context.Context, logger *slog.Logger, rootDir, path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		logger.ErrorContext(ctx, "Workbook path not accessible",
			slog.String("path", path),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !info.IsDir() {
		return []string{path}
	}

	discovery := files.NewDiscovery(rootDir)
	workbooks, err := discovery.FindWorkbooks(path)
	if err != nil {
		logger.ErrorContext(ctx, "Workbook discovery failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Workbooks discovered",
		slog.String("path", path),
		slog.Int("count", len(workbooks)))

	paths := make([]string, 0, len(workbooks))
	for _, wb := range workbooks {
		paths = append(paths, wb.Path)
	}
	return paths
}
