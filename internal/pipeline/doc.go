// Package pipeline orchestrates the end-to-end sales forecasting run.
//
// The three built-in stages mirror the standalone CLIs: ETL prepares the
// enriched transactions artifact, Panel builds the monthly feature panel,
// and Dataset writes the temporally split train and validation sets. Stages
// hand data to each other only through files under the configured path
// layout, so any prefix of the pipeline can be rerun in isolation.
package pipeline
