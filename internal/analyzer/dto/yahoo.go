package dto

// ChartResponse mirrors the Yahoo Finance v8 chart payload. Close values are
// pointers because the provider emits null for missing sessions.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *YahooError   `json:"error"`
	} `json:"chart"`
}

// ChartResult is one symbol's slice of the chart payload.
type ChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// YahooError is the error object embedded in Yahoo Finance payloads.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooValue is Yahoo's {raw, fmt} number wrapper used across quoteSummary
// modules.
type YahooValue struct {
	Raw *float64 `json:"raw"`
}

// QuoteSummaryResponse mirrors the Yahoo Finance v10 quoteSummary payload
// for the modules consumed by the fundamentals normalizer.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *YahooError          `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult is one symbol's quoteSummary modules.
type QuoteSummaryResult struct {
	SummaryDetail struct {
		TrailingPE YahooValue `json:"trailingPE"`
		NavPrice   YahooValue `json:"navPrice"`
	} `json:"summaryDetail"`
	FinancialData struct {
		TotalRevenue      YahooValue `json:"totalRevenue"`
		NetIncomeToCommon YahooValue `json:"netIncomeToCommon"`
		CurrentPrice      YahooValue `json:"currentPrice"`
		RevenueGrowth     YahooValue `json:"revenueGrowth"`
		ProfitMargins     YahooValue `json:"profitMargins"`
	} `json:"financialData"`
	DefaultKeyStatistics struct {
		NetIncomeToCommon YahooValue `json:"netIncomeToCommon"`
		TrailingEps       YahooValue `json:"trailingEps"`
		SharesOutstanding YahooValue `json:"sharesOutstanding"`
	} `json:"defaultKeyStatistics"`
}
