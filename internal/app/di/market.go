// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/config"
	candleusecase "stock_dashboard/internal/feature/candles/usecase"
	"stock_dashboard/internal/platform/cache"
	"stock_dashboard/internal/platform/externalapi/twelvedata"
	"stock_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/platform/metrics"
)

const (
	seriesNamespace = "series"
	fxNamespace     = "fx"
)

// NewMarket creates the configured market data provider with an instrumented HTTP client.
// m may be nil.
func NewMarket(provider string, m *metrics.Metrics) (candleusecase.MarketDataSource, error) {
	instrument := func(name string) []infrahttp.RoundTripperWrapper {
		if m == nil {
			return nil
		}
		return []infrahttp.RoundTripperWrapper{
			func(next http.RoundTripper) http.RoundTripper { return m.InstrumentTransport(name, next) },
		}
	}

	switch provider {
	case config.ProviderYahoo:
		cfg := yahoo.LoadConfig()
		return yahoo.NewYahooMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout, instrument(provider)...)), nil
	case config.ProviderTwelveData:
		cfg := twelvedata.LoadConfig()
		return twelvedata.NewTwelveDataMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout, instrument(provider)...)), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", provider)
	}
}

// Sources are the cached views of one provider.
type Sources struct {
	// Series caches price history with a session-aware TTL.
	Series *cache.CachingMarketSource
	// FX caches exchange rate quotes with their own TTL.
	FX *cache.CachingMarketSource
}

// NewSources wraps src in the series and FX caches. rdb may be nil, in which
// case both caches pass through to src.
func NewSources(rdb *redis.Client, clock cache.SessionClock, cfg *config.Config, src candleusecase.MarketDataSource, m *metrics.Metrics) Sources {
	series := cache.NewCachingMarketSource(rdb, cache.SessionTTL(clock, cfg.Cache.OpenTTL, cfg.Cache.ClosedTTL), src, seriesNamespace)
	fx := cache.NewCachingMarketSource(rdb, cache.FixedTTL(cfg.FX.TTL), src, fxNamespace)
	if m != nil {
		series.WithObserver(m)
		fx.WithObserver(m)
	}
	return Sources{Series: series, FX: fx}
}
