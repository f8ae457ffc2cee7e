package panel

import (
	"fmt"
	"math"
	"time"
)

// Month is a calendar month encoded as a count of months since year zero
// (year*12 + month-1). Arithmetic on Month values is calendar arithmetic:
// m-1 is the previous calendar month whether or not the series observed it.
type Month int

// NewMonth builds a Month from a year and a calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month(year*12 + int(month) - 1)
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// Year returns the calendar year of the month.
func (m Month) Year() int {
	return int(m) / 12
}

// MonthOfYear returns the month-of-year component.
func (m Month) MonthOfYear() time.Month {
	return time.Month(int(m)%12 + 1)
}

// Add returns the month n calendar months later (earlier for negative n).
func (m Month) Add(n int) Month {
	return m + Month(n)
}

// Time returns midnight on the first day of the month, UTC.
func (m Month) Time() time.Time {
	return time.Date(m.Year(), m.MonthOfYear(), 1, 0, 0, 0, 0, time.UTC)
}

// String formats the month as "2006-01".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), int(m.MonthOfYear()))
}

// ParseMonth parses a "2006-01" month string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Sentinel returns the missing-value marker used for lags, rolling means and
// targets with no observation. It is NaN, never zero: a zero would be read by
// the model as "sold nothing", which is a real observation. Imputation policy
// belongs to the caller.
func Sentinel() float64 {
	return math.NaN()
}

// IsSentinel reports whether v is the missing-value marker.
func IsSentinel(v float64) bool {
	return math.IsNaN(v)
}

// Row is one (store, product, month) cell of the monthly panel.
// Lags[i] holds total quantity i+1 calendar months back within the same
// (store, product) series; RollMeans is parallel to the configured rolling
// windows. Target is the next calendar month's total quantity.
type Row struct {
	StoreID   int64   `json:"store_id"`
	ProductID int64   `json:"product_id"`
	Month     Month   `json:"year_month"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	Lags      []float64 `json:"lags"`
	RollMeans []float64 `json:"roll_means,omitempty"`
	Target    float64   `json:"target"`
}

// HasTarget reports whether the row has an observed next-month target.
// The final observed month of every series has none; such rows are excluded
// from training but retained for inference.
func (r Row) HasTarget() bool {
	return !IsSentinel(r.Target)
}

// SeriesKey identifies a (store, product) series within the panel.
type SeriesKey struct {
	StoreID   int64
	ProductID int64
}

// Key returns the series this row belongs to.
func (r Row) Key() SeriesKey {
	return SeriesKey{StoreID: r.StoreID, ProductID: r.ProductID}
}
