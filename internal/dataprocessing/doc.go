// Package dataprocessing handles the raw input boundary of the pipeline:
// reading the sales transaction log (CSV or Excel workbook), validating its
// schema, joining product/store/category reference metadata, and producing
// the yearly control summary used as a sanity check on the raw totals.
//
// All parsing is strict. A row with an unparseable date or a non-numeric
// quantity or price aborts the load with a malformed-record error naming the
// file, line and field. Rows are never coerced or silently dropped, so the
// quantity and revenue sums observed downstream are exactly the sums present
// in the input.
package dataprocessing
