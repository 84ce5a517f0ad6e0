package di

import (
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/service/alphavantage"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/finnhub"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the shared upstream HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.Timeout))
}

// ProvideFinnhubClient creates the Finnhub client. It is always constructed:
// even when Alpha Vantage serves quotes, news and profiles come from here.
func ProvideFinnhubClient(cfg *config.Config, client *xhttp.Client, m repository.Metrics) *finnhub.Client {
	return finnhub.New(
		cfg.Providers.Finnhub.APIKey,
		cfg.Providers.Finnhub.BaseURL,
		client,
		m,
		cfg.Providers.RetryBackoff,
	)
}

// ProvideMarketData selects the primary quote provider.
func ProvideMarketData(cfg *config.Config, client *xhttp.Client, m repository.Metrics, fh *finnhub.Client) repository.MarketData {
	if cfg.Providers.Primary == "alphavantage" {
		return alphavantage.New(
			cfg.Providers.AlphaVantage.APIKey,
			cfg.Providers.AlphaVantage.BaseURL,
			client,
			m,
			cfg.Providers.RetryBackoff,
		)
	}
	return fh
}

// ProvideNewsSource exposes the news capability.
func ProvideNewsSource(fh *finnhub.Client) repository.NewsSource {
	return fh
}

// ProvideProfileSource exposes the company profile capability.
func ProvideProfileSource(fh *finnhub.Client) repository.ProfileSource {
	return fh
}

// ProvideAggregator creates the stock aggregation use case.
func ProvideAggregator(
	market repository.MarketData,
	news repository.NewsSource,
	profile repository.ProfileSource,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.StockAggregator {
	return usecase.NewStockAggregator(market, news, profile, m, logger, cfg.Watchlist)
}

// ProvideCache creates the response cache for the configured backend.
// A nil cache disables response caching entirely.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	switch cfg.Cache.Backend {
	case "redis":
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case "memory":
		return icache.NewTTLCache()
	default:
		return nil
	}
}

// ProvideStocksHandler creates the HTTP handler with cache and rate limiting
// attached per config.
func ProvideStocksHandler(
	cfg *config.Config,
	logger *applogger.Logger,
	agg *usecase.StockAggregator,
	cache icache.BytesCache,
) *api.StocksHandler {
	h := api.NewStocksHandler(logger, agg)
	if cache != nil {
		h.SetCache(cache, cfg.Cache.TTL)
	}
	if cfg.RateLimit.Enabled {
		h.SetRateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, logger *applogger.Logger, handler *api.StocksHandler) *server.App {
	return server.New(cfg, logger, handler)
}
