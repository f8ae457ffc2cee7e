package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ventascli/internal/errors"
	"ventascli/pkg/contracts/domain"
)

// salesHeader is the required column layout of the raw sales file. The
// schema is checked before any row is parsed; a mismatch fails fast instead
// of misreading columns by position.
var salesHeader = []string{"date", "store_id", "product_id", "unit_price", "quantity"}

var (
	productsHeader   = []string{"product_id", "product_name", "category_id"}
	storesHeader     = []string{"store_id", "store_name"}
	categoriesHeader = []string{"category_id", "category_name"}
)

// Loader reads the raw input files and joins reference metadata into
// transactions.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadReferenceData reads the product, store and category lookup tables.
func (l *Loader) LoadReferenceData(productsPath, storesPath, categoriesPath string) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{
		Products:   make(map[int64]domain.Product),
		Stores:     make(map[int64]domain.Store),
		Categories: make(map[int64]domain.Category),
	}

	if err := readCSVFile(productsPath, productsHeader, func(record []string, line int) error {
		id, err := parseInt(record[0], productsPath, line, "product_id")
		if err != nil {
			return err
		}
		catID, err := parseInt(record[2], productsPath, line, "category_id")
		if err != nil {
			return err
		}
		ref.Products[id] = domain.Product{
			ProductID:   id,
			ProductName: strings.TrimSpace(record[1]),
			CategoryID:  catID,
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	if err := readCSVFile(storesPath, storesHeader, func(record []string, line int) error {
		id, err := parseInt(record[0], storesPath, line, "store_id")
		if err != nil {
			return err
		}
		ref.Stores[id] = domain.Store{
			StoreID:   id,
			StoreName: strings.TrimSpace(record[1]),
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load stores: %w", err)
	}

	if err := readCSVFile(categoriesPath, categoriesHeader, func(record []string, line int) error {
		id, err := parseInt(record[0], categoriesPath, line, "category_id")
		if err != nil {
			return err
		}
		ref.Categories[id] = domain.Category{
			CategoryID:   id,
			CategoryName: strings.TrimSpace(record[1]),
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	l.logger.Info("reference data loaded",
		slog.Int("products", len(ref.Products)),
		slog.Int("stores", len(ref.Stores)),
		slog.Int("categories", len(ref.Categories)))

	return ref, nil
}

// LoadTransactions reads the raw sales file and enriches each record with
// reference metadata. ref may be nil, in which case no join happens.
//
// Parsing is strict: an unparseable date or non-numeric price/quantity
// aborts the load with a malformed-record error naming the file, line and
// field. Silently coercing or dropping such rows would corrupt downstream
// quantity and revenue sums without trace.
func (l *Loader) LoadTransactions(salesPath string, ref *domain.ReferenceData) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	var unmatchedProducts, unmatchedStores int

	err := readCSVFile(salesPath, salesHeader, func(record []string, line int) error {
		date, err := time.Parse(domain.RawDateFormat, strings.TrimSpace(record[0]))
		if err != nil {
			return errors.NewMalformedRecordError("unparseable date", err).
				WithContext("file", salesPath).
				WithContext("line", line).
				WithContext("field", "date").
				WithContext("value", record[0])
		}

		storeID, err := parseInt(record[1], salesPath, line, "store_id")
		if err != nil {
			return err
		}
		productID, err := parseInt(record[2], salesPath, line, "product_id")
		if err != nil {
			return err
		}
		unitPrice, err := parseFloat(record[3], salesPath, line, "unit_price")
		if err != nil {
			return err
		}
		quantity, err := parseFloat(record[4], salesPath, line, "quantity")
		if err != nil {
			return err
		}

		transaction := domain.Transaction{
			Date:      date,
			StoreID:   storeID,
			ProductID: productID,
			UnitPrice: unitPrice,
			Quantity:  quantity,
		}

		if ref != nil {
			if product, ok := ref.Products[productID]; ok {
				transaction.ProductName = product.ProductName
				transaction.CategoryID = product.CategoryID
				if category, ok := ref.Categories[product.CategoryID]; ok {
					transaction.CategoryName = category.CategoryName
				}
			} else {
				unmatchedProducts++
			}
			if store, ok := ref.Stores[storeID]; ok {
				transaction.StoreName = store.StoreName
			} else {
				unmatchedStores++
			}
		}

		transactions = append(transactions, transaction)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	if unmatchedProducts > 0 || unmatchedStores > 0 {
		l.logger.Warn("transactions without reference metadata",
			slog.Int("unmatched_products", unmatchedProducts),
			slog.Int("unmatched_stores", unmatchedStores))
	}

	l.logger.Info("transactions loaded",
		slog.String("file", salesPath),
		slog.Int("count", len(transactions)))

	return transactions, nil
}

// ReadTransactions reads a previously prepared (enriched) transactions CSV,
// the artifact written by the ETL stage.
func (l *Loader) ReadTransactions(path string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction

	err := readCSVFile(path, domain.PreparedTransactionsHeader, func(record []string, line int) error {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
		if err != nil {
			return errors.NewMalformedRecordError("unparseable date", err).
				WithContext("file", path).
				WithContext("line", line).
				WithContext("field", "date").
				WithContext("value", record[0])
		}

		storeID, err := parseInt(record[1], path, line, "store_id")
		if err != nil {
			return err
		}
		productID, err := parseInt(record[2], path, line, "product_id")
		if err != nil {
			return err
		}
		unitPrice, err := parseFloat(record[3], path, line, "unit_price")
		if err != nil {
			return err
		}
		quantity, err := parseFloat(record[4], path, line, "quantity")
		if err != nil {
			return err
		}
		categoryID := int64(0)
		if strings.TrimSpace(record[6]) != "" {
			categoryID, err = parseInt(record[6], path, line, "category_id")
			if err != nil {
				return err
			}
		}

		transactions = append(transactions, domain.Transaction{
			Date:         date,
			StoreID:      storeID,
			ProductID:    productID,
			UnitPrice:    unitPrice,
			Quantity:     quantity,
			ProductName:  strings.TrimSpace(record[5]),
			CategoryID:   categoryID,
			CategoryName: strings.TrimSpace(record[7]),
			StoreName:    strings.TrimSpace(record[8]),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read prepared transactions: %w", err)
	}

	return transactions, nil
}

// readCSVFile streams a CSV file row by row after validating its header.
func readCSVFile(path string, expectedHeader []string, handle func(record []string, line int) error) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError(path)
		}
		return errors.NewStorageError("failed to open input file", err).WithContext("file", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(expectedHeader)

	header, err := reader.Read()
	if err != nil {
		return errors.NewParsingError("failed to read CSV header", err).WithContext("file", path)
	}
	if err := checkHeader(header, expectedHeader); err != nil {
		return err
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return errors.NewParsingError("failed to read CSV record", err).
				WithContext("file", path).
				WithContext("line", line)
		}

		if err := handle(record, line); err != nil {
			return err
		}
	}
}

// checkHeader enforces the explicit input schema, case-insensitively.
func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return errors.NewValidationError(
			fmt.Sprintf("unexpected column count: want %d columns %v, got %d", len(want), want, len(got)))
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return errors.NewValidationError(
				fmt.Sprintf("unexpected column %d: want %q, got %q", i, want[i], got[i]))
		}
	}
	return nil
}

func parseInt(value, file string, line int, field string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, errors.NewMalformedRecordError(fmt.Sprintf("non-numeric %s", field), err).
			WithContext("file", file).
			WithContext("line", line).
			WithContext("field", field).
			WithContext("value", value)
	}
	return parsed, nil
}

func parseFloat(value, file string, line int, field string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errors.NewMalformedRecordError(fmt.Sprintf("non-numeric %s", field), err).
			WithContext("file", file).
			WithContext("line", line).
			WithContext("field", field).
			WithContext("value", value)
	}
	return parsed, nil
}
