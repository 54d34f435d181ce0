package service

import (
	"context"
	"errors"
	"testing"

	"smart-invest-api/internal/analyzer/config"
	"smart-invest-api/internal/analyzer/dto"
	"smart-invest-api/internal/entity"
	"smart-invest-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePriceRepo struct {
	tables map[string]entity.PriceTable
	err    error
}

func (f *fakePriceRepo) GetPriceHistory(_ context.Context, symbol, _ string) (entity.PriceTable, error) {
	if f.err != nil {
		return entity.PriceTable{}, f.err
	}
	return f.tables[symbol], nil
}

type fakeFundamentalsRepo struct {
	snap entity.FundamentalSnapshot
	err  error
}

func (f *fakeFundamentalsRepo) Get(_ context.Context, _ string) (entity.FundamentalSnapshot, error) {
	return f.snap, f.err
}

type fakeNewsRepo struct {
	articles []entity.Article
	err      error
}

func (f *fakeNewsRepo) Search(_ context.Context, _, _ string, _ int) ([]entity.Article, error) {
	return f.articles, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Analyzer: config.Analyzer{
			DefaultTicker: "TCS.NS",
			DefaultSuffix: ".NS",
			LookbackRange: "1y",
			MaxNews:       20,
			BaseThreshold: 0.6,
			DefaultWeights: config.Weights{
				Sentiment:   0.3,
				Technical:   0.3,
				Fundamental: 0.4,
			},
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func tableFor(symbol string, closes ...float64) entity.PriceTable {
	return entity.PriceTable{Columns: map[string]entity.PriceSeries{
		symbol: makeSeries(closes...),
	}}
}

func newTestService(t *testing.T, prices *fakePriceRepo, funds *fakeFundamentalsRepo, news *fakeNewsRepo) AnalyzerService {
	t.Helper()
	return NewAnalyzerService(testConfig(), testLogger(t), prices, funds, news, NewSentimentScorer())
}

func TestAnalyzeSuffixFallback(t *testing.T) {
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"TCS.NS": tableFor("TCS.NS", 100, 110),
	}}
	svc := newTestService(t, prices, &fakeFundamentalsRepo{}, &fakeNewsRepo{})

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "tcs"})
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", resp.Ticker)
	assert.Equal(t, 110.0, resp.CurrentPrice)
}

func TestAnalyzeNoData(t *testing.T) {
	svc := newTestService(t, &fakePriceRepo{}, &fakeFundamentalsRepo{}, &fakeNewsRepo{})

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NOPE"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAnalyzeNoSecondFallbackForSuffixedTicker(t *testing.T) {
	// An already-suffixed ticker gets no retry: a typo stays a failure.
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"TCSX.NS": tableFor("TCSX.NS", 100),
	}}
	svc := newTestService(t, prices, &fakeFundamentalsRepo{}, &fakeNewsRepo{})

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "TCS.BO"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAnalyzeTickerNotFound(t *testing.T) {
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"ABC.NS": tableFor("OTHER.NS", 100, 101),
	}}
	svc := newTestService(t, prices, &fakeFundamentalsRepo{}, &fakeNewsRepo{})

	_, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "ABC.NS"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTickerNotFound)
}

func TestAnalyzeCaseInsensitiveColumnResolve(t *testing.T) {
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"ABC.NS": tableFor("abc.ns", 100, 105),
	}}
	svc := newTestService(t, prices, &fakeFundamentalsRepo{}, &fakeNewsRepo{})

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "ABC.NS"})
	require.NoError(t, err)
	assert.Equal(t, "ABC.NS", resp.Ticker)
	assert.InDelta(t, 5.0, resp.PriceChange, 1e-9)
}

func TestAnalyzeDegradedSubScores(t *testing.T) {
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"ABC.NS": tableFor("ABC.NS", 100, 102),
	}}
	funds := &fakeFundamentalsRepo{err: errors.New("provider down")}
	news := &fakeNewsRepo{err: errors.New("feed down")}
	svc := newTestService(t, prices, funds, news)

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "ABC.NS"})
	require.NoError(t, err)

	// Both degradable sub-scores fall back to neutral.
	assert.Equal(t, 0.5, resp.FundamentalScore)
	assert.Equal(t, 0.5, resp.SentimentScore)

	// With no snapshot the market price falls back to the last close.
	require.NotNil(t, resp.Fundamentals.MarketPrice)
	assert.Equal(t, resp.CurrentPrice, *resp.Fundamentals.MarketPrice)
	assert.Nil(t, resp.Fundamentals.TotalRevenue)
	assert.Nil(t, resp.Fundamentals.NetIncome)
}

func TestAnalyzeSinglePointPriceChange(t *testing.T) {
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"ABC.NS": tableFor("ABC.NS", 250),
	}}
	svc := newTestService(t, prices, &fakeFundamentalsRepo{}, &fakeNewsRepo{})

	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "ABC.NS"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.PriceChange)
	assert.Equal(t, 250.0, resp.CurrentPrice)
}

func TestAnalyzeScoresAlwaysInRange(t *testing.T) {
	prices := &fakePriceRepo{tables: map[string]entity.PriceTable{
		"ABC.NS": tableFor("ABC.NS", 100, 1, 5000, 2, 900, 3, 800, 4, 700, 5, 600, 6),
	}}
	funds := &fakeFundamentalsRepo{snap: entity.FundamentalSnapshot{
		NetIncome:  floatPtr(-1e12),
		TrailingPE: floatPtr(10000),
		EPS:        floatPtr(-1e6),
	}}
	svc := newTestService(t, prices, funds, &fakeNewsRepo{})

	big := 50.0
	resp, err := svc.Analyze(context.Background(), &dto.AnalyzeRequest{
		Ticker:            "ABC.NS",
		SentimentWeight:   &big,
		TechnicalWeight:   &big,
		FundamentalWeight: &big,
	})
	require.NoError(t, err)

	for _, score := range []float64{resp.SentimentScore, resp.TechnicalScore, resp.FundamentalScore, resp.FinalScore} {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestCompositeScoreWeights(t *testing.T) {
	weights := config.Weights{Sentiment: 0.3, Technical: 0.3, Fundamental: 0.4}
	assert.InDelta(t, 0.62, compositeScore(0.8, 0.6, 0.5, weights), 1e-9)
}

func TestCompositeScoreNoRenormalization(t *testing.T) {
	// Weights summing past 1 are applied as-is and the result clamps.
	weights := config.Weights{Sentiment: 1, Technical: 1, Fundamental: 1}
	assert.Equal(t, 1.0, compositeScore(0.8, 0.6, 0.9, weights))

	weights = config.Weights{Sentiment: 0.2, Technical: 0.2, Fundamental: 0.2}
	assert.InDelta(t, 0.46, compositeScore(0.8, 0.6, 0.9, weights), 1e-9)
}
