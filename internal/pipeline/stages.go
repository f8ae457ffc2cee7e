package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"ventascli/internal/dataprocessing"
	"ventascli/internal/exporter"
	"ventascli/internal/files"
	"ventascli/internal/panel"
	"ventascli/internal/validation"
)

// StageIDETL, StageIDPanel and StageIDDataset identify the built-in stages.
const (
	StageIDETL     = "etl"
	StageIDPanel   = "panel"
	StageIDDataset = "dataset"
)

// ETLStage loads raw sales data, enriches it with reference metadata and
// writes the prepared transactions artifact plus the yearly control report.
type ETLStage struct{}

func NewETLStage() *ETLStage { return &ETLStage{} }

func (s *ETLStage) ID() string   { return StageIDETL }
func (s *ETLStage) Name() string { return "Sales ETL" }

func (s *ETLStage) Validate(env *Env) error {
	validator := validation.NewFileValidator(env.Logger)
	if err := validator.ValidateInputFile(env.Paths.SalesFile, ".csv"); err != nil {
		return fmt.Errorf("raw sales file: %w", err)
	}
	if env.WorkbookDir != "" {
		if err := validator.ValidateInputDirectory(env.WorkbookDir, "*.xlsx"); err != nil {
			return fmt.Errorf("workbook directory: %w", err)
		}
	}
	return validator.ValidateOutputDirectory(env.Paths.DataPrepDir)
}

func (s *ETLStage) Execute(ctx context.Context, env *Env) error {
	loader := dataprocessing.NewLoader(env.Logger)

	ref, err := loader.LoadReferenceData(env.Paths.ProductsFile, env.Paths.StoresFile, env.Paths.CategoriesFile)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	transactions, err := loader.LoadTransactions(env.Paths.SalesFile, ref)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	if env.WorkbookDir != "" {
		discovery := files.NewDiscovery(env.Paths.RootDir)
		workbooks, err := discovery.FindWorkbooks(env.WorkbookDir)
		if err != nil {
			return fmt.Errorf("discover workbooks: %w", err)
		}
		for _, wb := range workbooks {
			extra, err := loader.ParseWorkbook(wb.Path)
			if err != nil {
				return fmt.Errorf("parse workbook %s: %w", wb.Name, err)
			}
			transactions = append(transactions, extra...)
		}
	}

	writer := exporter.NewCSVWriter(env.Paths)
	if err := writer.WriteTransactions(env.Paths.TransactionsCSV, transactions); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}

	summarizer := dataprocessing.NewControlSummarizer(env.Logger)
	controls, err := summarizer.GenerateFromTransactions(ctx, transactions)
	if err != nil {
		return fmt.Errorf("generate yearly control: %w", err)
	}
	if err := summarizer.WriteCSV(ctx, env.Paths.YearlyControlCSV, controls); err != nil {
		return fmt.Errorf("write yearly control: %w", err)
	}
	if err := summarizer.WriteJSON(ctx, env.Paths.GetReportPath("yearly_control.json"), controls); err != nil {
		return fmt.Errorf("write yearly control json: %w", err)
	}

	env.Logger.InfoContext(ctx, "ETL stage complete",
		slog.Int("transactions", len(transactions)),
		slog.Int("years", len(controls)))
	return nil
}

// PanelStage aggregates prepared transactions into the monthly panel with
// lag and rolling mean features and exports it as CSV and Parquet.
type PanelStage struct{}

func NewPanelStage() *PanelStage { return &PanelStage{} }

func (s *PanelStage) ID() string   { return StageIDPanel }
func (s *PanelStage) Name() string { return "Monthly Panel" }

func (s *PanelStage) Validate(env *Env) error {
	if err := validation.NewFileValidator(env.Logger).ValidateInputFile(env.Paths.TransactionsCSV, ".csv"); err != nil {
		return fmt.Errorf("prepared transactions: %w", err)
	}
	return nil
}

func (s *PanelStage) Execute(ctx context.Context, env *Env) error {
	loader := dataprocessing.NewLoader(env.Logger)
	transactions, err := loader.ReadTransactions(env.Paths.TransactionsCSV)
	if err != nil {
		return fmt.Errorf("read transactions: %w", err)
	}

	rows, err := panel.AggregateMonthly(ctx, transactions, env.Config.Panel.LagCount)
	if err != nil {
		return fmt.Errorf("aggregate monthly: %w", err)
	}

	rows, err = panel.WithRollingMeans(rows, env.Config.Panel.RollingWindows)
	if err != nil {
		return fmt.Errorf("rolling means: %w", err)
	}

	writer := exporter.NewCSVWriter(env.Paths)
	if err := writer.WritePanelCSV(env.Paths.PanelCSV, rows, env.Config.Panel.RollingWindows); err != nil {
		return fmt.Errorf("write panel csv: %w", err)
	}
	if err := writer.WritePanelParquet(env.Paths.PanelParquet, rows, env.Config.Panel.RollingWindows); err != nil {
		return fmt.Errorf("write panel parquet: %w", err)
	}

	env.Logger.InfoContext(ctx, "Panel stage complete", slog.Int("rows", len(rows)))
	return nil
}

// DatasetStage filters the panel down to trainable rows and writes the
// temporally split train and validation sets.
type DatasetStage struct{}

func NewDatasetStage() *DatasetStage { return &DatasetStage{} }

func (s *DatasetStage) ID() string   { return StageIDDataset }
func (s *DatasetStage) Name() string { return "Modeling Dataset" }

func (s *DatasetStage) Validate(env *Env) error {
	if err := validation.NewFileValidator(env.Logger).ValidateInputFile(env.Paths.PanelCSV, ".csv"); err != nil {
		return fmt.Errorf("monthly panel: %w", err)
	}
	return nil
}

func (s *DatasetStage) Execute(ctx context.Context, env *Env) error {
	rows, windows, err := exporter.ReadPanelCSV(env.Paths.PanelCSV)
	if err != nil {
		return fmt.Errorf("read panel: %w", err)
	}

	trainable := panel.TrainingRows(rows)
	train, valid := panel.TemporalSplit(trainable, env.Config.Panel.TrainQuantileCutoff)

	writer := exporter.NewCSVWriter(env.Paths)
	if err := writer.WritePanelCSV(env.Paths.TrainCSV, train, windows); err != nil {
		return fmt.Errorf("write train set: %w", err)
	}
	if err := writer.WritePanelCSV(env.Paths.ValidationCSV, valid, windows); err != nil {
		return fmt.Errorf("write validation set: %w", err)
	}

	env.Logger.InfoContext(ctx, "Dataset stage complete",
		slog.Int("train_rows", len(train)),
		slog.Int("validation_rows", len(valid)))
	return nil
}

// DefaultStages returns the full pipeline in execution order.
func DefaultStages() []Stage {
	return []Stage{NewETLStage(), NewPanelStage(), NewDatasetStage()}
}
