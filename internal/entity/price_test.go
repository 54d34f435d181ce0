package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceTableResolve(t *testing.T) {
	series := PriceSeries{{Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100}}
	table := PriceTable{Columns: map[string]PriceSeries{"tcs.ns": series}}

	got, key, found := table.Resolve("TCS.NS")
	require.True(t, found)
	assert.Equal(t, "tcs.ns", key)
	assert.Equal(t, series, got)

	_, _, found = table.Resolve("INFY.NS")
	assert.False(t, found)
}

func TestPriceTableResolvePrefersExactMatch(t *testing.T) {
	table := PriceTable{Columns: map[string]PriceSeries{
		"ABC": {{Close: 1}},
	}}
	got, key, found := table.Resolve("ABC")
	require.True(t, found)
	assert.Equal(t, "ABC", key)
	assert.Equal(t, 1.0, got[0].Close)
}

func TestPriceTableEmpty(t *testing.T) {
	assert.True(t, PriceTable{}.Empty())
	assert.True(t, PriceTable{Columns: map[string]PriceSeries{"A": {}}}.Empty())
	assert.False(t, PriceTable{Columns: map[string]PriceSeries{"A": {{Close: 1}}}}.Empty())
}

func TestPriceSeriesCloses(t *testing.T) {
	series := PriceSeries{{Close: 1.5}, {Close: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, series.Closes())
	assert.False(t, series.Empty())
	assert.True(t, PriceSeries{}.Empty())
}
