package entity

import "time"

// Article is one news item about a ticker. The title is the identity used
// for deduplication.
type Article struct {
	Ticker      string     `json:"ticker"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      string     `json:"source"`
}

// SentimentRecord pairs an article with its lexicon polarity components.
// Compound is in [-1,1]; the other components are in [0,1].
type SentimentRecord struct {
	Article
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}
