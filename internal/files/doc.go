// Package files provides file discovery utilities for the sales pipeline.
//
// The ETL stage uses Discovery to enumerate raw sales workbooks and CSV
// exports on disk. Workbook discovery skips editor lock files and returns
// results in name order so ingestion is deterministic across runs.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/root")
//	workbooks, err := discovery.FindWorkbooks("data/raw")
package files
