package domain

import (
	"math"
	"time"
)

// RawDateFormat is the day.month.year layout used by the raw sales exports.
const RawDateFormat = "02.01.2006"

// Transaction represents a single raw sales record after cleaning and
// metadata enrichment. It is the immutable input unit of the pipeline:
// records are read once per run and never mutated.
type Transaction struct {
	Date      time.Time `json:"date" validate:"required"`
	StoreID   int64     `json:"store_id" validate:"gte=0"`
	ProductID int64     `json:"product_id" validate:"gte=0"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  float64   `json:"quantity"`

	// Metadata joined in from the reference tables. Optional: the
	// aggregation core never depends on these fields.
	ProductName  string `json:"product_name,omitempty"`
	CategoryID   int64  `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	StoreName    string `json:"store_name,omitempty"`
}

// PreparedTransactionsHeader is the column layout of the enriched
// transactions artifact shared between the ETL writer and the panel reader.
var PreparedTransactionsHeader = []string{
	"date", "store_id", "product_id", "unit_price", "quantity",
	"product_name", "category_id", "category_name", "store_name",
}

// Revenue returns the transaction revenue (quantity times unit price).
func (t Transaction) Revenue() float64 {
	return t.Quantity * t.UnitPrice
}

// IsValid checks that the record carries a parsed date and finite numerics.
// A record failing this check must surface as a malformed-record error, never
// be coerced or silently dropped.
func (t Transaction) IsValid() bool {
	if t.Date.IsZero() {
		return false
	}
	if math.IsNaN(t.Quantity) || math.IsInf(t.Quantity, 0) {
		return false
	}
	if math.IsNaN(t.UnitPrice) || math.IsInf(t.UnitPrice, 0) {
		return false
	}
	return true
}
