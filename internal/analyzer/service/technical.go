package service

import (
	"math"

	"smart-invest-api/internal/entity"
)

const volatilityEpsilon = 1e-9

// computeTechnicals derives the rolling indicators for every date of a close
// series. Windows use trailing points only; an indicator stays nil until its
// minimum sample count is met (SMA50 and Volatility30: 10 points, SMA200:
// 50 points, Momentum30: 30 prior points).
func computeTechnicals(series entity.PriceSeries) []entity.TechnicalRow {
	if series.Empty() {
		return nil
	}

	closes := series.Closes()
	rows := make([]entity.TechnicalRow, len(series))
	for i, point := range series {
		row := entity.TechnicalRow{Date: point.Date, Close: point.Close}

		row.SMA50 = trailingMean(closes, i, 50, 10)
		row.SMA200 = trailingMean(closes, i, 200, 50)
		if i >= 30 {
			momentum := closes[i] - closes[i-30]
			row.Momentum30 = &momentum
		}
		row.Volatility30 = trailingStd(closes, i, 30, 10)

		rows[i] = row
	}
	return rows
}

// trailingMean averages the up-to-window trailing points ending at index i,
// or returns nil when fewer than minPeriods points are available.
func trailingMean(closes []float64, i, window, minPeriods int) *float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	n := i - start + 1
	if n < minPeriods {
		return nil
	}
	sum := 0.0
	for _, c := range closes[start : i+1] {
		sum += c
	}
	mean := sum / float64(n)
	return &mean
}

// trailingStd computes the sample standard deviation of the up-to-window
// trailing points ending at index i, or nil below minPeriods.
func trailingStd(closes []float64, i, window, minPeriods int) *float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	n := i - start + 1
	if n < minPeriods {
		return nil
	}
	sum := 0.0
	for _, c := range closes[start : i+1] {
		sum += c
	}
	mean := sum / float64(n)
	sqSum := 0.0
	for _, c := range closes[start : i+1] {
		d := c - mean
		sqSum += d * d
	}
	std := math.Sqrt(sqSum / float64(n-1))
	return &std
}

// technicalScoreForLatest scores the most recent technical row. Each
// adjustment is skipped when its inputs are undefined; the result is clamped
// to [0,1]. With no technical data at all the score is a neutral 0.5.
func technicalScoreForLatest(rows []entity.TechnicalRow) float64 {
	if len(rows) == 0 {
		return 0.5
	}
	latest := rows[len(rows)-1]

	score := 0.5
	if latest.SMA50 != nil && latest.SMA200 != nil {
		if *latest.SMA50 > *latest.SMA200 {
			score += 0.2
		} else {
			score -= 0.1
		}
	}
	if latest.Momentum30 != nil {
		if *latest.Momentum30 > 0 {
			score += 0.15
		} else {
			score -= 0.1
		}
	}
	if latest.Volatility30 != nil {
		penalty := *latest.Volatility30 / (latest.Close + volatilityEpsilon)
		score -= math.Min(0.2, penalty)
	}

	return clamp01(score)
}

// smartThreshold adapts the buy threshold to recent volatility: the noisier
// the price, the higher the bar. Undefined volatility counts as zero; the
// base threshold applies when no technical data exists or the latest close
// is zero.
func smartThreshold(rows []entity.TechnicalRow, baseThreshold float64) float64 {
	if len(rows) == 0 {
		return baseThreshold
	}
	latest := rows[len(rows)-1]
	if latest.Close == 0 {
		return baseThreshold
	}

	volatility := 0.0
	if latest.Volatility30 != nil {
		volatility = *latest.Volatility30
	}
	volPct := volatility / latest.Close

	switch {
	case volPct > 0.02:
		return 0.70
	case volPct > 0.01:
		return 0.65
	default:
		return 0.55
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
