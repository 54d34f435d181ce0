package entity

import "time"

// TechnicalRow holds the derived indicators for one date. Indicators are nil
// until their minimum sample counts are met.
type TechnicalRow struct {
	Date         time.Time
	Close        float64
	SMA50        *float64
	SMA200       *float64
	Momentum30   *float64
	Volatility30 *float64
}
