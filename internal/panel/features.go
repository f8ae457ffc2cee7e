package panel

import (
	"fmt"

	"ventascli/internal/errors"
)

// WithRollingMeans returns a copy of the panel with RollMeans filled in for
// each configured window. The mean for window w at month m covers the w
// calendar months m-1..m-w, past observations only. A window that spans any
// unobserved month yields the sentinel: averaging over a gap would pretend
// the series was contiguous, the same failure mode as positional lags.
func WithRollingMeans(rows []Row, windows []int) ([]Row, error) {
	for _, w := range windows {
		if w < 1 {
			return nil, errors.NewValidationError(fmt.Sprintf("rolling window must be positive, got %d", w))
		}
	}

	// Index observed quantities per series.
	totals := make(map[SeriesKey]map[Month]float64)
	for _, row := range rows {
		key := row.Key()
		if totals[key] == nil {
			totals[key] = make(map[Month]float64)
		}
		totals[key][row.Month] = row.TotalQuantity
	}

	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = row
		out[i].RollMeans = make([]float64, len(windows))

		seriesMonths := totals[row.Key()]
		for wi, w := range windows {
			sum := 0.0
			complete := true
			for back := 1; back <= w; back++ {
				qty, ok := seriesMonths[row.Month.Add(-back)]
				if !ok {
					complete = false
					break
				}
				sum += qty
			}

			if complete {
				out[i].RollMeans[wi] = sum / float64(w)
			} else {
				out[i].RollMeans[wi] = Sentinel()
			}
		}
	}

	return out, nil
}
