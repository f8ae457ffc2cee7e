package panel

import (
	"sort"
)

// TrainingRows filters the panel down to rows usable for supervised fitting:
// the target is observed and every lag and rolling-mean feature is observed.
// Negative targets (net returns exceeding sales in the following month) are
// clipped to zero. Rows dropped here stay available in the full panel for
// inference; the filter is explicit so downstream imputation choices remain
// auditable.
func TrainingRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !row.HasTarget() {
			continue
		}
		if !featuresComplete(row) {
			continue
		}
		if row.Target < 0 {
			row.Target = 0
		}
		out = append(out, row)
	}
	return out
}

// InferenceRows returns the rows without an observed target: the final
// observed month of each series, which is exactly what a next-month forecast
// scores on.
func InferenceRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if !row.HasTarget() {
			out = append(out, row)
		}
	}
	return out
}

func featuresComplete(row Row) bool {
	for _, lag := range row.Lags {
		if IsSentinel(lag) {
			return false
		}
	}
	for _, rm := range row.RollMeans {
		if IsSentinel(rm) {
			return false
		}
	}
	return true
}

// TemporalSplit splits rows into train and validation sets at the month
// sitting at the given quantile of the panel's month distribution. Rows in
// the cutoff month or earlier train; later rows validate. The split is by
// time only, never by series, so validation is a true forward holdout.
func TemporalSplit(rows []Row, quantile float64) (train, valid []Row) {
	if len(rows) == 0 {
		return nil, nil
	}
	if quantile <= 0 {
		return nil, append([]Row(nil), rows...)
	}
	if quantile >= 1 {
		return append([]Row(nil), rows...), nil
	}

	months := make([]Month, len(rows))
	for i, row := range rows {
		months[i] = row.Month
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	cutoff := months[int(quantile*float64(len(months)-1))]

	for _, row := range rows {
		if row.Month <= cutoff {
			train = append(train, row)
		} else {
			valid = append(valid, row)
		}
	}

	return train, valid
}
