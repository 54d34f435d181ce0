package repository

import (
	"context"
	"fmt"
	"time"

	"smart-invest-api/internal/analyzer/config"
	"smart-invest-api/internal/analyzer/dto"
	"smart-invest-api/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/piquette/finance-go/quote"
)

const (
	indexCacheKey         = "market_indices"
	indexCacheLastGoodKey = "market_indices_last_good"
)

// MarketIndexRepository serves quotes for the configured market indices from
// a TTL cache. When a refresh fails, the last successfully fetched quotes
// are served instead (stale-but-valid beats refetch failure).
type MarketIndexRepository interface {
	GetQuotes(ctx context.Context) ([]dto.IndexQuote, error)
}

type marketIndexRepository struct {
	cfg           *config.Config
	log           *logger.Logger
	inmemoryCache *cache.Cache
}

// NewMarketIndexRepository creates a new MarketIndexRepository.
func NewMarketIndexRepository(cfg *config.Config, log *logger.Logger) MarketIndexRepository {
	ttl := cfg.MarketIndex.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &marketIndexRepository{
		cfg:           cfg,
		log:           log,
		inmemoryCache: cache.New(ttl, 2*ttl),
	}
}

func (r *marketIndexRepository) GetQuotes(ctx context.Context) ([]dto.IndexQuote, error) {
	if cached, ok := r.inmemoryCache.Get(indexCacheKey); ok {
		return cached.([]dto.IndexQuote), nil
	}

	quotes, err := r.fetchQuotes(ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to refresh index quotes", logger.ErrorField(err))
		if stale, ok := r.inmemoryCache.Get(indexCacheLastGoodKey); ok {
			return stale.([]dto.IndexQuote), nil
		}
		return nil, err
	}

	// Concurrent requests may race here; last writer wins.
	r.inmemoryCache.Set(indexCacheKey, quotes, cache.DefaultExpiration)
	r.inmemoryCache.Set(indexCacheLastGoodKey, quotes, cache.NoExpiration)
	return quotes, nil
}

func (r *marketIndexRepository) fetchQuotes(ctx context.Context) ([]dto.IndexQuote, error) {
	quotes := make([]dto.IndexQuote, 0, len(r.cfg.MarketIndex.Symbols))
	for _, symbol := range r.cfg.MarketIndex.Symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := quote.Get(symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}
		if q == nil {
			return nil, fmt.Errorf("no quote returned for %s", symbol)
		}
		quotes = append(quotes, dto.IndexQuote{
			Symbol:        symbol,
			Name:          q.ShortName,
			Price:         q.RegularMarketPrice,
			Change:        q.RegularMarketChange,
			ChangePercent: q.RegularMarketChangePercent,
		})
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no index symbols configured")
	}
	return quotes, nil
}
