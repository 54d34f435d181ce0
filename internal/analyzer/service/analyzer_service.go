package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"smart-invest-api/internal/analyzer/config"
	"smart-invest-api/internal/analyzer/dto"
	"smart-invest-api/internal/analyzer/repository"
	"smart-invest-api/internal/entity"
	"smart-invest-api/pkg/logger"
	"smart-invest-api/pkg/utils"
)

var (
	// ErrNoData means the price provider returned nothing for the ticker,
	// after the suffix fallback was attempted.
	ErrNoData = errors.New("no price data")
	// ErrTickerNotFound means data came back but the requested symbol's
	// column is absent even under case-insensitive matching.
	ErrTickerNotFound = errors.New("ticker not found")
)

// AnalyzerService runs the full buy-quality analysis for a ticker.
type AnalyzerService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
}

type analyzerService struct {
	cfg          *config.Config
	log          *logger.Logger
	yahooFinance repository.YahooFinanceRepository
	fundamentals repository.FundamentalsRepository
	news         repository.NewsRepository
	sentiment    *SentimentScorer
}

// NewAnalyzerService creates a new AnalyzerService.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	yahooFinance repository.YahooFinanceRepository,
	fundamentals repository.FundamentalsRepository,
	news repository.NewsRepository,
	sentiment *SentimentScorer,
) AnalyzerService {
	return &analyzerService{
		cfg:          cfg,
		log:          log,
		yahooFinance: yahooFinance,
		fundamentals: fundamentals,
		news:         news,
		sentiment:    sentiment,
	}
}

// Analyze fetches prices, fundamentals and news for the ticker, scores each
// dimension and combines them into the final result. Fundamentals and news
// failures degrade to neutral defaults; only NoData and TickerNotFound abort.
// A panic anywhere in the pipeline is converted into an error value so the
// transport layer only ever sees structured results.
func (s *analyzerService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (resp *dto.AnalyzeResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Analysis pipeline panicked", logger.Field("panic", r))
			resp = nil
			err = fmt.Errorf("analysis failed: %v", r)
		}
	}()

	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		ticker = s.cfg.Analyzer.DefaultTicker
	}
	maxNews := req.MaxNews
	if maxNews <= 0 {
		maxNews = s.cfg.Analyzer.MaxNews
	}
	weights := s.resolveWeights(req)

	table, fetchErr := s.yahooFinance.GetPriceHistory(ctx, ticker, s.cfg.Analyzer.LookbackRange)
	if fetchErr != nil {
		s.log.ErrorContext(ctx, "Price history fetch failed", logger.ErrorField(fetchErr), logger.StringField("ticker", ticker))
		table = entity.PriceTable{}
	}

	// Single retry with the market suffix, only for unsuffixed tickers. The
	// alternate symbol is adopted only when its fetch succeeds.
	if table.Empty() && !strings.Contains(ticker, ".") && s.cfg.Analyzer.DefaultSuffix != "" {
		altTicker := ticker + s.cfg.Analyzer.DefaultSuffix
		s.log.DebugContext(ctx, "No data for ticker, retrying with suffix", logger.StringField("ticker", ticker), logger.StringField("alt_ticker", altTicker))
		altTable, altErr := s.yahooFinance.GetPriceHistory(ctx, altTicker, s.cfg.Analyzer.LookbackRange)
		if altErr == nil && !altTable.Empty() {
			ticker = altTicker
			table = altTable
		}
	}

	if table.Empty() {
		return nil, fmt.Errorf("%w: provider returned no data for %s; this is often a temporary rate limit or an invalid ticker, for Indian stocks try the %s suffix",
			ErrNoData, ticker, s.cfg.Analyzer.DefaultSuffix)
	}

	series, _, found := table.Resolve(ticker)
	if !found {
		return nil, fmt.Errorf("%w: %s is absent from the fetched data; for Indian stocks use the %s suffix (e.g. TCS%s)",
			ErrTickerNotFound, ticker, s.cfg.Analyzer.DefaultSuffix, s.cfg.Analyzer.DefaultSuffix)
	}

	rows := computeTechnicals(series)
	technicalScore := technicalScoreForLatest(rows)
	threshold := smartThreshold(rows, s.cfg.Analyzer.BaseThreshold)

	// Fundamentals and news are independent of each other and of the
	// technical pass, so they are fetched concurrently. Both degrade to
	// neutral defaults on failure.
	var (
		wg      sync.WaitGroup
		snap    entity.FundamentalSnapshot
		fundErr error
		records []entity.SentimentRecord
	)
	wg.Add(2)
	utils.GoSafe(func() {
		defer wg.Done()
		snap, fundErr = s.fundamentals.Get(ctx, ticker)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		articles, newsErr := s.news.Search(ctx, ticker, s.newsQuery(ticker), maxNews)
		if newsErr != nil {
			s.log.ErrorContext(ctx, "News fetch failed, sentiment degrades to neutral", logger.ErrorField(newsErr), logger.StringField("ticker", ticker))
			articles = nil
		}
		records = s.sentiment.Score(articles)
	})
	wg.Wait()

	if fundErr != nil {
		s.log.ErrorContext(ctx, "Fundamentals fetch failed, score degrades to neutral", logger.ErrorField(fundErr), logger.StringField("ticker", ticker))
		snap = entity.FundamentalSnapshot{}
	}

	fundamentalSc := fundamentalScore(snap)
	sentimentSc := rescaleCompound(meanCompound(records))
	finalScore := compositeScore(sentimentSc, technicalScore, fundamentalSc, weights)

	lastPrice := series[len(series)-1].Close
	priceChange := 0.0
	if len(series) > 1 {
		prevPrice := series[len(series)-2].Close
		priceChange = (lastPrice - prevPrice) / prevPrice * 100
	}

	fundamentals := dto.FundamentalsPayload{
		MarketPrice:       snap.MarketPrice,
		TotalRevenue:      snap.Revenue,
		NetIncome:         snap.NetIncome,
		RevenueYoY:        snap.RevenueYoY,
		NetMargin:         snap.NetMargin,
		TrailingEPS:       snap.EPS,
		TrailingPE:        snap.TrailingPE,
		SharesOutstanding: snap.SharesOutstanding,
	}
	if fundErr != nil {
		// With no snapshot at all the market price falls back to the last
		// close so the client always has a price to display.
		fundamentals.MarketPrice = &lastPrice
	}

	return &dto.AnalyzeResponse{
		Ticker:           ticker,
		CurrentPrice:     lastPrice,
		PriceChange:      priceChange,
		SentimentScore:   sentimentSc,
		TechnicalScore:   technicalScore,
		FundamentalScore: fundamentalSc,
		FinalScore:       finalScore,
		BuyThreshold:     threshold,
		Fundamentals:     fundamentals,
	}, nil
}

// compositeScore combines the sub-scores with the given weights and clamps
// the sum to [0,1]. Weights are applied as supplied; they are not
// renormalized when they do not sum to 1.
func compositeScore(sentiment, technical, fundamental float64, w config.Weights) float64 {
	return clamp01(w.Sentiment*sentiment + w.Technical*technical + w.Fundamental*fundamental)
}

func (s *analyzerService) resolveWeights(req *dto.AnalyzeRequest) config.Weights {
	weights := s.cfg.Analyzer.DefaultWeights
	if req.SentimentWeight != nil {
		weights.Sentiment = *req.SentimentWeight
	}
	if req.TechnicalWeight != nil {
		weights.Technical = *req.TechnicalWeight
	}
	if req.FundamentalWeight != nil {
		weights.Fundamental = *req.FundamentalWeight
	}
	return weights
}

// newsQuery is the search term for the news lookup: the ticker without its
// market suffix.
func (s *analyzerService) newsQuery(ticker string) string {
	query := ticker
	if s.cfg.Analyzer.DefaultSuffix != "" {
		query = strings.TrimSuffix(query, s.cfg.Analyzer.DefaultSuffix)
	}
	return strings.TrimSpace(query)
}
