package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"ventascli/internal/panel"
)

// pool is the Arrow allocator shared by all Parquet exports.
var pool = memory.NewGoAllocator()

// panelSchema builds the Arrow schema for the monthly panel. Lag, rolling
// mean and target columns are nullable so sentinels map to Parquet nulls
// instead of a magic number.
func panelSchema(lagCount int, windows []int) *arrow.Schema {
	fields := []arrow.Field{
		{Name: "store_id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "product_id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "year_month", Type: arrow.BinaryTypes.String},
		{Name: "total_quantity", Type: arrow.PrimitiveTypes.Float64},
		{Name: "total_revenue", Type: arrow.PrimitiveTypes.Float64},
	}
	for lag := 1; lag <= lagCount; lag++ {
		fields = append(fields, arrow.Field{
			Name: fmt.Sprintf("lag_%d", lag), Type: arrow.PrimitiveTypes.Float64, Nullable: true,
		})
	}
	for _, window := range windows {
		fields = append(fields, arrow.Field{
			Name: fmt.Sprintf("roll_mean_%d", window), Type: arrow.PrimitiveTypes.Float64, Nullable: true,
		})
	}
	fields = append(fields, arrow.Field{Name: "target", Type: arrow.PrimitiveTypes.Float64, Nullable: true})
	return arrow.NewSchema(fields, nil)
}

// WritePanelParquet writes the monthly panel as a Snappy-compressed Parquet
// file. The columnar artifact carries the same layout as the CSV export, with
// sentinels stored as nulls.
func (w *CSVWriter) WritePanelParquet(filePath string, rows []panel.Row, windows []int) error {
	fullPath := w.resolvePath(filePath)

	lagCount := 0
	if len(rows) > 0 {
		lagCount = len(rows[0].Lags)
	}

	slog.Info("Writing Parquet file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(rows)),
		slog.Int("lag_count", lagCount))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	schema := panelSchema(lagCount, windows)
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	writer, err := pqarrow.NewFileWriter(schema, file, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	record := buildPanelRecord(schema, rows, lagCount, len(windows))
	defer record.Release()

	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}

	return writer.Close()
}

// buildPanelRecord materializes the panel rows as a single Arrow record.
func buildPanelRecord(schema *arrow.Schema, rows []panel.Row, lagCount, windowCount int) arrow.Record {
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	storeIDs := builder.Field(0).(*array.Int64Builder)
	productIDs := builder.Field(1).(*array.Int64Builder)
	months := builder.Field(2).(*array.StringBuilder)
	quantities := builder.Field(3).(*array.Float64Builder)
	revenues := builder.Field(4).(*array.Float64Builder)

	for _, row := range rows {
		storeIDs.Append(row.StoreID)
		productIDs.Append(row.ProductID)
		months.Append(row.Month.String())
		quantities.Append(row.TotalQuantity)
		revenues.Append(row.TotalRevenue)

		offset := 5
		for i := 0; i < lagCount; i++ {
			appendOptional(builder.Field(offset+i).(*array.Float64Builder), row.Lags[i])
		}
		offset += lagCount
		for i := 0; i < windowCount; i++ {
			appendOptional(builder.Field(offset+i).(*array.Float64Builder), row.RollMeans[i])
		}
		appendOptional(builder.Field(offset+windowCount).(*array.Float64Builder), row.Target)
	}

	return builder.NewRecord()
}

func appendOptional(b *array.Float64Builder, value float64) {
	if panel.IsSentinel(value) {
		b.AppendNull()
		return
	}
	b.Append(value)
}
