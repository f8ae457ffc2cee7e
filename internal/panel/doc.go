// Package panel implements the aggregation-and-lag builder at the heart of
// the sales-forecasting pipeline.
//
// AggregateMonthly folds a flat transaction log into one row per
// (store, product, calendar month) with summed quantity and revenue, trailing
// lag features and a next-month target. The correctness property the package
// is built around: lags are looked up by calendar distance within each
// series, never by row offset. A product-store series observed in months
// January, February and April has no March row, and April's one-month lag is
// the missing-value sentinel, not February's total.
//
// WithRollingMeans, TrainingRows and TemporalSplit extend the panel into a
// modeling dataset; each stage is a pure function over explicit inputs, so
// stages compose and test independently.
package panel
