package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"smart-invest-api/internal/analyzer/config"
	"smart-invest-api/internal/analyzer/dto"
	"smart-invest-api/internal/entity"
	"smart-invest-api/pkg/logger"

	"golang.org/x/time/rate"
)

// YahooFinanceRepository fetches daily close-price history and normalizes the
// provider payload into a canonical PriceTable.
type YahooFinanceRepository interface {
	GetPriceHistory(ctx context.Context, symbol string, rangeData string) (entity.PriceTable, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new YahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	maxPerMinute := cfg.YahooFinance.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, symbol string, rangeData string) (entity.PriceTable, error) {
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), url.QueryEscape(rangeData))

	body, err := r.sendRequest(ctx, reqURL)
	if err != nil {
		return entity.PriceTable{}, err
	}

	var response dto.ChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return entity.PriceTable{}, fmt.Errorf("failed to unmarshal chart response: %w", err)
	}
	if response.Chart.Error != nil {
		return entity.PriceTable{}, fmt.Errorf("chart API error: %s", response.Chart.Error.Description)
	}

	return normalizeChart(symbol, response.Chart.Result), nil
}

// normalizeChart converts the provider result slices into one PriceSeries
// column per symbol. A result without a symbol in its meta is keyed by the
// requested symbol, which covers single-symbol flat payloads.
func normalizeChart(requested string, results []dto.ChartResult) entity.PriceTable {
	table := entity.PriceTable{Columns: make(map[string]entity.PriceSeries)}
	for _, result := range results {
		if len(result.Indicators.Quote) == 0 {
			continue
		}
		closes := result.Indicators.Quote[0].Close
		series := make(entity.PriceSeries, 0, len(result.Timestamp))
		for i, ts := range result.Timestamp {
			if i >= len(closes) || closes[i] == nil {
				continue
			}
			day := time.Unix(ts, 0).UTC()
			series = append(series, entity.PricePoint{
				// Dates are truncated to midnight UTC so downstream indexing
				// is timezone-naive.
				Date:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
				Close: *closes[i],
			})
		}
		if len(series) == 0 {
			continue
		}
		key := result.Meta.Symbol
		if key == "" {
			key = requested
		}
		table.Columns[key] = series
	}
	return table
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", url))
		return nil, fmt.Errorf("yahoo finance returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
