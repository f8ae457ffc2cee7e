// Package exporter writes pipeline artifacts to disk.
//
// All exports resolve against the configured path layout: prepared data goes
// under the prep directory, summaries under reports. The monthly panel is
// exported twice, as CSV for inspection and as Snappy-compressed Parquet for
// downstream modeling. Missing values are rendered as empty CSV cells and
// Parquet nulls so they never collapse into zero.
package exporter
