package dto

// AnalyzeRequest is the inbound contract for a ticker analysis. Weight
// fields are pointers so an absent field can fall back to the configured
// default without colliding with an explicit zero.
type AnalyzeRequest struct {
	Ticker            string   `json:"ticker"`
	MaxNews           int      `json:"maxNews"`
	SentimentWeight   *float64 `json:"sentimentWeight"`
	TechnicalWeight   *float64 `json:"technicalWeight"`
	FundamentalWeight *float64 `json:"fundamentalWeight"`
}

// FundamentalsPayload is the normalized fundamentals object returned with an
// analysis. Nil fields serialize as null, meaning "unknown".
type FundamentalsPayload struct {
	MarketPrice       *float64 `json:"marketPrice"`
	TotalRevenue      *float64 `json:"totalRevenue"`
	NetIncome         *float64 `json:"netIncome"`
	RevenueYoY        float64  `json:"revenueYoY"`
	NetMargin         float64  `json:"netMargin"`
	TrailingEPS       *float64 `json:"trailingEPS"`
	TrailingPE        *float64 `json:"trailingPE"`
	SharesOutstanding int64    `json:"sharesOutstanding"`
}

// AnalyzeResponse is the outbound contract on success. All scores are in
// [0,1]; PriceChange is a day-over-day percentage.
type AnalyzeResponse struct {
	Ticker           string              `json:"ticker"`
	CurrentPrice     float64             `json:"currentPrice"`
	PriceChange      float64             `json:"priceChange"`
	SentimentScore   float64             `json:"sentimentScore"`
	TechnicalScore   float64             `json:"technicalScore"`
	FundamentalScore float64             `json:"fundamentalScore"`
	FinalScore       float64             `json:"finalScore"`
	BuyThreshold     float64             `json:"buyThreshold"`
	Fundamentals     FundamentalsPayload `json:"fundamentals"`
}
