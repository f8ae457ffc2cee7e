package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ventascli/internal/errors"
	"ventascli/pkg/contracts/domain"
)

// ParseWorkbook reads raw sales transactions from an Excel workbook. Store
// exports arrive with shifting sheet names and column orders, so the sheet
// and the column positions are detected from the header row rather than
// hard-coded.
//
// Parsing follows the same strict policy as the CSV loader: rows that are
// entirely empty are skipped, but a row with data and an unparseable date or
// non-numeric quantity/price aborts the whole load with a malformed-record
// error.
func (l *Loader) ParseWorkbook(filePath string) ([]domain.Transaction, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err).WithContext("file", filePath)
	}
	defer f.Close()

	rows, sheetName, err := findSalesSheet(f)
	if err != nil {
		return nil, err
	}

	l.logger.Info("found sales data in sheet",
		slog.String("file", filePath),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	headerRow, columnMap, err := mapSalesColumns(rows)
	if err != nil {
		return nil, err
	}

	var transactions []domain.Transaction

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		if isEmptyRow(row, columnMap) {
			continue
		}

		cell := func(name string) string {
			idx := columnMap[name]
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		date, err := time.Parse(domain.RawDateFormat, cell("date"))
		if err != nil {
			return nil, errors.NewMalformedRecordError("unparseable date", err).
				WithContext("file", filePath).
				WithContext("sheet", sheetName).
				WithContext("row", i+1).
				WithContext("value", cell("date"))
		}

		storeID, err := parseWorkbookInt(cell("store_id"), filePath, i+1, "store_id")
		if err != nil {
			return nil, err
		}
		productID, err := parseWorkbookInt(cell("product_id"), filePath, i+1, "product_id")
		if err != nil {
			return nil, err
		}
		unitPrice, err := parseWorkbookFloat(cell("unit_price"), filePath, i+1, "unit_price")
		if err != nil {
			return nil, err
		}
		quantity, err := parseWorkbookFloat(cell("quantity"), filePath, i+1, "quantity")
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, domain.Transaction{
			Date:      date,
			StoreID:   storeID,
			ProductID: productID,
			UnitPrice: unitPrice,
			Quantity:  quantity,
		})
	}

	l.logger.Info("workbook parsed",
		slog.String("file", filePath),
		slog.Int("transaction_count", len(transactions)))

	return transactions, nil
}

// findSalesSheet locates the sheet containing transaction data by looking
// for a header row with the expected column names.
func findSalesSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}

		limit := len(rows)
		if limit > 10 {
			limit = 10
		}
		for _, row := range rows[:limit] {
			rowText := strings.ToLower(strings.Join(row, " "))
			if strings.Contains(rowText, "date") &&
				strings.Contains(rowText, "store") &&
				strings.Contains(rowText, "product") &&
				(strings.Contains(rowText, "price") || strings.Contains(rowText, "quantity")) {
				return rows, name, nil
			}
		}
	}

	return nil, "", errors.NewParsingError("could not find sales data sheet in workbook", nil)
}

// mapSalesColumns finds the header row and maps column positions by name.
func mapSalesColumns(rows [][]string) (int, map[string]int, error) {
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}

		columnMap := make(map[string]int)
		for j, header := range row {
			headerLower := strings.ToLower(strings.TrimSpace(header))
			switch {
			case headerLower == "date":
				columnMap["date"] = j
			case strings.Contains(headerLower, "store"):
				columnMap["store_id"] = j
			case strings.Contains(headerLower, "product") || strings.Contains(headerLower, "item"):
				columnMap["product_id"] = j
			case strings.Contains(headerLower, "price"):
				columnMap["unit_price"] = j
			case strings.Contains(headerLower, "quantity") || strings.Contains(headerLower, "qty") || strings.Contains(headerLower, "units"):
				columnMap["quantity"] = j
			}
		}

		complete := true
		for _, col := range []string{"date", "store_id", "product_id", "unit_price", "quantity"} {
			if _, exists := columnMap[col]; !exists {
				complete = false
				break
			}
		}
		if complete {
			return i, columnMap, nil
		}
	}

	return 0, nil, errors.NewParsingError("could not find header row in workbook", nil)
}

// isEmptyRow checks whether all mapped cells of a row are blank.
func isEmptyRow(row []string, columnMap map[string]int) bool {
	for _, idx := range columnMap {
		if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
			return false
		}
	}
	return true
}

func parseWorkbookInt(value, file string, row int, field string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
	if err != nil {
		return 0, errors.NewMalformedRecordError(fmt.Sprintf("non-numeric %s", field), err).
			WithContext("file", file).
			WithContext("row", row).
			WithContext("field", field).
			WithContext("value", value)
	}
	return parsed, nil
}

func parseWorkbookFloat(value, file string, row int, field string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, errors.NewMalformedRecordError(fmt.Sprintf("non-numeric %s", field), err).
			WithContext("file", file).
			WithContext("row", row).
			WithContext("field", field).
			WithContext("value", value)
	}
	return parsed, nil
}
