package repository

import (
	"context"
	"testing"
	"time"

	"smart-invest-api/internal/analyzer/config"
	"smart-invest-api/internal/analyzer/dto"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketIndexServesFreshCache(t *testing.T) {
	repo := &marketIndexRepository{
		cfg:           &config.Config{},
		log:           testLogger(t),
		inmemoryCache: cache.New(time.Minute, 2*time.Minute),
	}
	cached := []dto.IndexQuote{{Symbol: "^NSEI", Price: 24500}}
	repo.inmemoryCache.Set(indexCacheKey, cached, cache.DefaultExpiration)

	quotes, err := repo.GetQuotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, quotes)
}

func TestMarketIndexServesStaleOnRefreshFailure(t *testing.T) {
	// No symbols configured makes every refresh fail; the last good quotes
	// must still be served.
	repo := &marketIndexRepository{
		cfg:           &config.Config{},
		log:           testLogger(t),
		inmemoryCache: cache.New(time.Millisecond, time.Minute),
	}
	stale := []dto.IndexQuote{{Symbol: "^BSESN", Price: 80000}}
	repo.inmemoryCache.Set(indexCacheLastGoodKey, stale, cache.NoExpiration)

	quotes, err := repo.GetQuotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stale, quotes)
}

func TestMarketIndexFailsWithNothingCached(t *testing.T) {
	repo := &marketIndexRepository{
		cfg:           &config.Config{},
		log:           testLogger(t),
		inmemoryCache: cache.New(time.Minute, 2*time.Minute),
	}
	_, err := repo.GetQuotes(context.Background())
	assert.Error(t, err)
}
