package entity

import (
	"strings"
	"time"
)

// PricePoint is a single daily close observation. Dates are timezone-naive:
// they are truncated to midnight UTC before indexing.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered close-price history for one symbol, strictly
// increasing by date with no duplicate dates.
type PriceSeries []PricePoint

// Empty reports whether the series has no points.
func (s PriceSeries) Empty() bool {
	return len(s) == 0
}

// Closes returns the close prices in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// PriceTable is the canonical result of a price-history fetch: one
// PriceSeries column per symbol, keyed by the symbol as the provider
// reported it.
type PriceTable struct {
	Columns map[string]PriceSeries
}

// Empty reports whether the table holds no usable series.
func (t PriceTable) Empty() bool {
	for _, s := range t.Columns {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// Resolve finds the column for symbol, matching case-insensitively when an
// exact match is absent. It returns the series, the column key actually
// used, and whether a column was found.
func (t PriceTable) Resolve(symbol string) (PriceSeries, string, bool) {
	if s, ok := t.Columns[symbol]; ok {
		return s, symbol, true
	}
	for key, s := range t.Columns {
		if strings.EqualFold(key, symbol) {
			return s, key, true
		}
	}
	return nil, "", false
}
