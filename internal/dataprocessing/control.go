package dataprocessing

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ventascli/internal/errors"
	"ventascli/pkg/contracts/domain"
)

// YearlyControl is a per-year sanity-check aggregate of the raw transaction
// log. It exists so a reviewer can eyeball totals before the monthly panel is
// built: if yearly revenue looks wrong here, no amount of feature engineering
// downstream is trustworthy.
type YearlyControl struct {
	Year            int     `json:"year" csv:"Year"`
	TotalRevenue    float64 `json:"total_revenue" csv:"TotalRevenue"`
	TotalUnits      float64 `json:"total_units" csv:"TotalUnits"`
	NumTransactions int     `json:"num_transactions" csv:"NumTransactions"`
	AvgPrice        float64 `json:"avg_price" csv:"AvgPrice"`
	ActiveProducts  int     `json:"active_products" csv:"ActiveProducts"`
	ActiveStores    int     `json:"active_stores" csv:"ActiveStores"`
}

// ControlSummarizer generates yearly control aggregates.
type ControlSummarizer struct {
	logger *slog.Logger
}

// NewControlSummarizer creates a control summarizer. A nil logger falls back
// to slog.Default.
func NewControlSummarizer(logger *slog.Logger) *ControlSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlSummarizer{logger: logger}
}

// GenerateFromTransactions builds one control row per calendar year, sorted
// by year ascending.
func (s *ControlSummarizer) GenerateFromTransactions(ctx context.Context, transactions []domain.Transaction) ([]YearlyControl, error) {
	s.logger.InfoContext(ctx, "generating yearly control summary",
		slog.Int("transaction_count", len(transactions)))

	type yearAccum struct {
		revenue  float64
		units    float64
		count    int
		priceSum float64
		products map[int64]struct{}
		stores   map[int64]struct{}
	}

	years := make(map[int]*yearAccum)
	for i, tx := range transactions {
		if !tx.IsValid() {
			return nil, errors.NewMalformedRecordError("transaction has unparseable date or non-numeric quantity/price", nil).
				WithContext("index", i)
		}

		year := tx.Date.Year()
		acc, ok := years[year]
		if !ok {
			acc = &yearAccum{
				products: make(map[int64]struct{}),
				stores:   make(map[int64]struct{}),
			}
			years[year] = acc
		}

		acc.revenue += tx.Revenue()
		acc.units += tx.Quantity
		acc.count++
		acc.priceSum += tx.UnitPrice
		acc.products[tx.ProductID] = struct{}{}
		acc.stores[tx.StoreID] = struct{}{}
	}

	controls := make([]YearlyControl, 0, len(years))
	for year, acc := range years {
		control := YearlyControl{
			Year:            year,
			TotalRevenue:    acc.revenue,
			TotalUnits:      acc.units,
			NumTransactions: acc.count,
			ActiveProducts:  len(acc.products),
			ActiveStores:    len(acc.stores),
		}
		if acc.count > 0 {
			control.AvgPrice = acc.priceSum / float64(acc.count)
		}
		controls = append(controls, control)
	}

	sort.Slice(controls, func(i, j int) bool {
		return controls[i].Year < controls[j].Year
	})

	s.logger.InfoContext(ctx, "yearly control summary generated",
		slog.Int("year_count", len(controls)))

	return controls, nil
}

// WriteCSV writes the yearly control rows to a CSV file.
func (s *ControlSummarizer) WriteCSV(ctx context.Context, path string, controls []YearlyControl) error {
	s.logger.InfoContext(ctx, "writing yearly control to CSV",
		slog.String("path", path),
		slog.Int("row_count", len(controls)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for control output", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create control CSV file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Year", "TotalRevenue", "TotalUnits", "NumTransactions", "AvgPrice", "ActiveProducts", "ActiveStores"}
	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write control CSV header", err)
	}

	for _, control := range controls {
		row := []string{
			fmt.Sprintf("%d", control.Year),
			fmt.Sprintf("%.2f", control.TotalRevenue),
			fmt.Sprintf("%.2f", control.TotalUnits),
			fmt.Sprintf("%d", control.NumTransactions),
			fmt.Sprintf("%.4f", control.AvgPrice),
			fmt.Sprintf("%d", control.ActiveProducts),
			fmt.Sprintf("%d", control.ActiveStores),
		}
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write control CSV row", err)
		}
	}

	return nil
}

// WriteJSON writes the yearly control rows to a JSON file with metadata.
func (s *ControlSummarizer) WriteJSON(ctx context.Context, path string, controls []YearlyControl) error {
	s.logger.InfoContext(ctx, "writing yearly control to JSON",
		slog.String("path", path),
		slog.Int("row_count", len(controls)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for control output", err)
	}

	jsonData := map[string]interface{}{
		"years":        controls,
		"count":        len(controls),
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "yearly_control_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create control JSON file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonData); err != nil {
		return errors.NewStorageError("failed to encode control summary to JSON", err)
	}

	return nil
}
