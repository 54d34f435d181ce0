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

const quoteSummaryModules = "summaryDetail,financialData,defaultKeyStatistics"

// FundamentalsRepository fetches a normalized fundamentals snapshot for a
// symbol. Missing provider fields stay nil; they are never zero-filled.
type FundamentalsRepository interface {
	Get(ctx context.Context, symbol string) (entity.FundamentalSnapshot, error)
}

type fundamentalsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFundamentalsRepository creates a new FundamentalsRepository.
func NewFundamentalsRepository(cfg *config.Config, log *logger.Logger) FundamentalsRepository {
	maxPerMinute := cfg.YahooFinance.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &fundamentalsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *fundamentalsRepository) Get(ctx context.Context, symbol string) (entity.FundamentalSnapshot, error) {
	reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), url.QueryEscape(quoteSummaryModules))

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return entity.FundamentalSnapshot{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return entity.FundamentalSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch fundamentals", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return entity.FundamentalSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response for fundamentals", logger.IntField("status_code", resp.StatusCode), logger.StringField("symbol", symbol))
		return entity.FundamentalSnapshot{}, fmt.Errorf("quoteSummary returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.FundamentalSnapshot{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var response dto.QuoteSummaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return entity.FundamentalSnapshot{}, fmt.Errorf("failed to unmarshal quoteSummary response: %w", err)
	}
	if response.QuoteSummary.Error != nil {
		return entity.FundamentalSnapshot{}, fmt.Errorf("quoteSummary API error: %s", response.QuoteSummary.Error.Description)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return entity.FundamentalSnapshot{}, fmt.Errorf("quoteSummary returned no result for %s", symbol)
	}

	return normalizeFundamentals(response.QuoteSummary.Result[0]), nil
}

func normalizeFundamentals(result dto.QuoteSummaryResult) entity.FundamentalSnapshot {
	snap := entity.FundamentalSnapshot{
		Revenue:     result.FinancialData.TotalRevenue.Raw,
		NetIncome:   firstValue(result.FinancialData.NetIncomeToCommon, result.DefaultKeyStatistics.NetIncomeToCommon),
		TrailingPE:  result.SummaryDetail.TrailingPE.Raw,
		EPS:         result.DefaultKeyStatistics.TrailingEps.Raw,
		MarketPrice: firstValue(result.FinancialData.CurrentPrice, result.SummaryDetail.NavPrice),
	}
	if growth := result.FinancialData.RevenueGrowth.Raw; growth != nil {
		snap.RevenueYoY = *growth * 100
	}
	if margin := result.FinancialData.ProfitMargins.Raw; margin != nil {
		snap.NetMargin = *margin * 100
	}
	if shares := result.DefaultKeyStatistics.SharesOutstanding.Raw; shares != nil {
		snap.SharesOutstanding = int64(*shares)
	}
	return snap
}

func firstValue(values ...dto.YahooValue) *float64 {
	for _, v := range values {
		if v.Raw != nil {
			return v.Raw
		}
	}
	return nil
}
