package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NabirasulA/Galaxy/internal/cache"
	"github.com/NabirasulA/Galaxy/internal/client/alphavantage"
	"github.com/NabirasulA/Galaxy/internal/metrics"
)

const (
	gatewayMarket    = "alphavantage"
	moversCacheKey   = "market:top_gainers_losers"
	DefaultMoversTTL = 15 * time.Minute
)

// MarketService serves the market-movers document from a TTL cache.
type MarketService struct {
	Client  *alphavantage.Client
	Cache   *cache.Refresher
	TTL     time.Duration
	Flags   *SystemSettingsService
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Movers returns the cached document, refreshing it once older than the
// configured TTL. The market cache switch turns caching off entirely.
func (s *MarketService) Movers(ctx context.Context) (cache.Entry, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultMoversTTL
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureMarketCache, true) {
		ttl = 0
	}
	return s.GetOrRefresh(ctx, ttl)
}

// GetOrRefresh returns the cached movers document while it is younger than
// ttl, otherwise fetches, stores and returns a fresh one.
func (s *MarketService) GetOrRefresh(ctx context.Context, ttl time.Duration) (cache.Entry, error) {
	if !s.Client.Configured() {
		return cache.Entry{}, fmt.Errorf("%w: market data api key is missing (set GALAXY_MARKET_DATA_API_KEY)", ErrNotConfigured)
	}
	refresher := s.Cache
	if refresher == nil {
		refresher = cache.NewRefresher(nil)
	}
	entry, err := refresher.GetOrRefresh(ctx, moversCacheKey, ttl, func(ctx context.Context) ([]byte, error) {
		start := time.Now()
		body, err := s.Client.TopGainersLosers(ctx)
		s.Metrics.ObserveGateway(gatewayMarket, start, err)
		return body, err
	})
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("market movers refresh failed", zap.Error(err))
		}
		return cache.Entry{}, gatewayError(gatewayMarket, err)
	}
	return entry, nil
}

// Section returns one of top_gainers, top_losers or most_active.
func (s *MarketService) Section(ctx context.Context, name string) ([]byte, error) {
	entry, err := s.Movers(ctx)
	if err != nil {
		return nil, err
	}
	return alphavantage.Section(entry.Payload, name), nil
}

// Quote fetches a live price. It bypasses the movers cache.
func (s *MarketService) Quote(ctx context.Context, symbol string) (alphavantage.Quote, bool, error) {
	if !s.Client.Configured() {
		return alphavantage.Quote{}, false, fmt.Errorf("%w: market data api key is missing", ErrNotConfigured)
	}
	start := time.Now()
	q, ok, err := s.Client.GlobalQuote(ctx, symbol)
	s.Metrics.ObserveGateway(gatewayMarket, start, err)
	if err != nil {
		return alphavantage.Quote{}, false, gatewayError(gatewayMarket, err)
	}
	return q, ok, nil
}
