// Package config provides configuration loading and path resolution for the
// sales-forecasting pipeline.
//
// Configuration is loaded from environment variables (VENTAS_ prefix) merged
// over an optional YAML file, then validated. Paths gives every pipeline
// stage an explicit, caller-controlled location for its input and output
// artifacts instead of relying on working-directory conventions.
package config
