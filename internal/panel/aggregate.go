package panel

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"ventascli/internal/errors"
	"ventascli/pkg/contracts/domain"
)

// seriesTotals accumulates per-month sums for one (store, product) series.
type seriesTotals struct {
	quantity map[Month]float64
	revenue  map[Month]float64
}

// AggregateMonthly transforms a flat transaction log into the monthly
// (store, product) panel with lagCount trailing-lag features and a next-month
// target.
//
// The panel holds exactly one row per (store, product, month) that had at
// least one transaction. Missing months are absent rows, never fabricated:
// lag features are computed by calendar distance within each series, so a row
// following a gap sees the sentinel for the skipped months rather than the
// positionally previous row's value.
//
// A record with a zero date or non-finite quantity/price aborts the whole
// aggregation with a malformed-record error; silently skipping it would
// corrupt the quantity and revenue sums without trace. Zero transactions
// yield an empty panel and no error.
func AggregateMonthly(ctx context.Context, transactions []domain.Transaction, lagCount int) ([]Row, error) {
	if lagCount < 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("lag count must be non-negative, got %d", lagCount))
	}

	logger := slog.Default()
	logger.InfoContext(ctx, "aggregating transactions into monthly panel",
		slog.Int("transaction_count", len(transactions)),
		slog.Int("lag_count", lagCount))

	if len(transactions) == 0 {
		return []Row{}, nil
	}

	// Group and sum. Duplicate transactions are additive by definition.
	series := make(map[SeriesKey]*seriesTotals)
	for i, tx := range transactions {
		if !tx.IsValid() {
			return nil, errors.NewMalformedRecordError("transaction has unparseable date or non-numeric quantity/price", nil).
				WithContext("index", i).
				WithContext("store_id", tx.StoreID).
				WithContext("product_id", tx.ProductID)
		}

		key := SeriesKey{StoreID: tx.StoreID, ProductID: tx.ProductID}
		st, ok := series[key]
		if !ok {
			st = &seriesTotals{
				quantity: make(map[Month]float64),
				revenue:  make(map[Month]float64),
			}
			series[key] = st
		}

		month := MonthOf(tx.Date)
		st.quantity[month] += tx.Quantity
		st.revenue[month] += tx.Revenue()
	}

	// Each series is independent, so lag construction fans out across a
	// bounded errgroup. Determinism comes from the final sort.
	keys := make([]SeriesKey, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}

	results := make([][]Row, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, key := range keys {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = buildSeriesRows(key, series[key], lagCount)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build series rows: %w", err)
	}

	var rows []Row
	for _, seriesRows := range results {
		rows = append(rows, seriesRows...)
	}

	SortRows(rows)

	logger.InfoContext(ctx, "monthly panel built",
		slog.Int("row_count", len(rows)),
		slog.Int("series_count", len(keys)))

	return rows, nil
}

// buildSeriesRows emits one row per observed month of a single series.
// Lags and target are looked up by calendar month, not row position.
func buildSeriesRows(key SeriesKey, st *seriesTotals, lagCount int) []Row {
	months := make([]Month, 0, len(st.quantity))
	for month := range st.quantity {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	rows := make([]Row, 0, len(months))
	for _, month := range months {
		row := Row{
			StoreID:       key.StoreID,
			ProductID:     key.ProductID,
			Month:         month,
			TotalQuantity: st.quantity[month],
			TotalRevenue:  st.revenue[month],
			Lags:          make([]float64, lagCount),
			Target:        Sentinel(),
		}

		for lag := 1; lag <= lagCount; lag++ {
			if qty, ok := st.quantity[month.Add(-lag)]; ok {
				row.Lags[lag-1] = qty
			} else {
				row.Lags[lag-1] = Sentinel()
			}
		}

		if next, ok := st.quantity[month.Add(1)]; ok {
			row.Target = next
		}

		rows = append(rows, row)
	}

	return rows
}

// SortRows orders rows by (store, product, month) ascending in place.
func SortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StoreID != rows[j].StoreID {
			return rows[i].StoreID < rows[j].StoreID
		}
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].Month < rows[j].Month
	})
}
