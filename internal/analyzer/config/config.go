package config

import (
	"time"

	"smart-invest-api/pkg/config"
)

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// NewsAPI holds the configuration for the keyed news search API.
type NewsAPI struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// GoogleNews holds the configuration for the public news feed fallback.
type GoogleNews struct {
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
	Country  string `mapstructure:"country"`
}

// Weights holds the sub-score weights. They are applied as-is; no
// renormalization is performed when they do not sum to 1.
type Weights struct {
	Sentiment   float64 `mapstructure:"sentiment"`
	Technical   float64 `mapstructure:"technical"`
	Fundamental float64 `mapstructure:"fundamental"`
}

// Analyzer holds the analysis pipeline configuration.
type Analyzer struct {
	DefaultTicker  string  `mapstructure:"default_ticker"`
	DefaultSuffix  string  `mapstructure:"default_suffix"`
	LookbackRange  string  `mapstructure:"lookback_range"`
	MaxNews        int     `mapstructure:"max_news"`
	BaseThreshold  float64 `mapstructure:"base_threshold"`
	DefaultWeights Weights `mapstructure:"weights"`
}

// MarketIndex holds the configuration for the cached index quotes.
type MarketIndex struct {
	Symbols  []string      `mapstructure:"symbols"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Config holds the full configuration for the analysis service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	API          config.API    `mapstructure:"api"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	NewsAPI      NewsAPI       `mapstructure:"news_api"`
	GoogleNews   GoogleNews    `mapstructure:"google_news"`
	Analyzer     Analyzer      `mapstructure:"analyzer"`
	MarketIndex  MarketIndex   `mapstructure:"market_index"`
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
