package entity

// FundamentalSnapshot is a normalized set of valuation and profitability
// metrics. Pointer fields are nil when the provider omitted them; growth and
// margin default to 0.0 and shares outstanding to 0.
type FundamentalSnapshot struct {
	Revenue           *float64
	NetIncome         *float64
	TrailingPE        *float64
	EPS               *float64
	MarketPrice       *float64
	RevenueYoY        float64
	NetMargin         float64
	SharesOutstanding int64
}
