package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ventascli/internal/errors"
	"ventascli/internal/panel"
)

// PanelHeader returns the column layout of the monthly panel artifact for a
// given lag count and rolling window set.
func PanelHeader(lagCount int, windows []int) []string {
	header := []string{"store_id", "product_id", "year_month", "total_quantity", "total_revenue"}
	for lag := 1; lag <= lagCount; lag++ {
		header = append(header, fmt.Sprintf("lag_%d", lag))
	}
	for _, window := range windows {
		header = append(header, fmt.Sprintf("roll_mean_%d", window))
	}
	return append(header, "target")
}

// WritePanelCSV writes the monthly panel to a CSV file. Sentinel values are
// rendered as empty cells so downstream tooling reads them as missing, never
// as zero.
func (w *CSVWriter) WritePanelCSV(filePath string, rows []panel.Row, windows []int) error {
	lagCount := 0
	if len(rows) > 0 {
		lagCount = len(rows[0].Lags)
	}

	stream, err := w.CreateStreamWriter(filePath, PanelHeader(lagCount, windows))
	if err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.StoreID, 10),
			strconv.FormatInt(row.ProductID, 10),
			row.Month.String(),
			formatQuantity(row.TotalQuantity),
			formatQuantity(row.TotalRevenue),
		}
		for _, lag := range row.Lags {
			record = append(record, formatOptional(lag))
		}
		for _, mean := range row.RollMeans {
			record = append(record, formatOptional(mean))
		}
		record = append(record, formatOptional(row.Target))

		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write panel record: %w", err)
		}
	}

	return stream.Close()
}

// ReadPanelCSV reads a monthly panel artifact back into memory. The lag and
// rolling window layout is recovered from the header, and empty cells come
// back as sentinels.
func ReadPanelCSV(path string) ([]panel.Row, []int, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewNotFoundError(path)
		}
		return nil, nil, errors.NewStorageError("failed to open panel file", err).WithContext("file", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to read panel header", err).WithContext("file", path)
	}

	lagCount, windows, err := parsePanelHeader(header, path)
	if err != nil {
		return nil, nil, err
	}
	reader.FieldsPerRecord = len(header)

	var rows []panel.Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewParsingError("failed to read panel record", err).
				WithContext("file", path).
				WithContext("line", line+1)
		}
		line++

		row, err := parsePanelRecord(record, lagCount, len(windows), path, line)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}

	return rows, windows, nil
}

// parsePanelHeader validates the fixed prefix and suffix columns and recovers
// the lag count and rolling window list from the middle.
func parsePanelHeader(header []string, path string) (int, []int, error) {
	fixed := []string{"store_id", "product_id", "year_month", "total_quantity", "total_revenue"}
	if len(header) < len(fixed)+1 {
		return 0, nil, errors.NewValidationError("panel header too short").WithContext("file", path)
	}
	for i, want := range fixed {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return 0, nil, errors.NewValidationError("unexpected panel column").
				WithContext("file", path).
				WithContext("column", header[i]).
				WithContext("expected", want)
		}
	}
	if !strings.EqualFold(strings.TrimSpace(header[len(header)-1]), "target") {
		return 0, nil, errors.NewValidationError("panel header missing target column").WithContext("file", path)
	}

	lagCount := 0
	var windows []int
	for _, column := range header[len(fixed) : len(header)-1] {
		column = strings.ToLower(strings.TrimSpace(column))
		switch {
		case strings.HasPrefix(column, "lag_"):
			lagCount++
		case strings.HasPrefix(column, "roll_mean_"):
			window, err := strconv.Atoi(strings.TrimPrefix(column, "roll_mean_"))
			if err != nil {
				return 0, nil, errors.NewValidationError("unparseable rolling window column").
					WithContext("file", path).
					WithContext("column", column)
			}
			windows = append(windows, window)
		default:
			return 0, nil, errors.NewValidationError("unexpected panel column").
				WithContext("file", path).
				WithContext("column", column)
		}
	}

	return lagCount, windows, nil
}

func parsePanelRecord(record []string, lagCount, windowCount int, path string, line int) (panel.Row, error) {
	storeID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return panel.Row{}, malformedPanelCell(err, path, line, "store_id", record[0])
	}
	productID, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		return panel.Row{}, malformedPanelCell(err, path, line, "product_id", record[1])
	}
	month, err := panel.ParseMonth(strings.TrimSpace(record[2]))
	if err != nil {
		return panel.Row{}, malformedPanelCell(err, path, line, "year_month", record[2])
	}
	totalQuantity, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return panel.Row{}, malformedPanelCell(err, path, line, "total_quantity", record[3])
	}
	totalRevenue, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil {
		return panel.Row{}, malformedPanelCell(err, path, line, "total_revenue", record[4])
	}

	row := panel.Row{
		StoreID:       storeID,
		ProductID:     productID,
		Month:         month,
		TotalQuantity: totalQuantity,
		TotalRevenue:  totalRevenue,
		Lags:          make([]float64, lagCount),
		RollMeans:     make([]float64, windowCount),
	}

	offset := 5
	for i := 0; i < lagCount; i++ {
		row.Lags[i], err = parseOptional(record[offset+i])
		if err != nil {
			return panel.Row{}, malformedPanelCell(err, path, line, fmt.Sprintf("lag_%d", i+1), record[offset+i])
		}
	}
	offset += lagCount
	for i := 0; i < windowCount; i++ {
		row.RollMeans[i], err = parseOptional(record[offset+i])
		if err != nil {
			return panel.Row{}, malformedPanelCell(err, path, line, "roll_mean", record[offset+i])
		}
	}
	row.Target, err = parseOptional(record[len(record)-1])
	if err != nil {
		return panel.Row{}, malformedPanelCell(err, path, line, "target", record[len(record)-1])
	}

	return row, nil
}

func malformedPanelCell(cause error, path string, line int, field, value string) error {
	return errors.NewMalformedRecordError("unparseable panel cell", cause).
		WithContext("file", path).
		WithContext("line", line).
		WithContext("field", field).
		WithContext("value", value)
}

// formatOptional renders a sentinel as an empty cell.
func formatOptional(value float64) string {
	if panel.IsSentinel(value) {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// formatQuantity renders an always-present numeric column.
func formatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// parseOptional reads an optional numeric cell, mapping blank to the sentinel.
func parseOptional(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return panel.Sentinel(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
