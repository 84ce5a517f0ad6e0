package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// MarketData is the capability every upstream provider implements. UI-facing
// code never branches on which provider is behind it.
type MarketData interface {
	Name() string

	// SearchSymbols returns up to 10 matches in upstream relevance order,
	// with zeroed price fields. An empty query or no matches yields an
	// empty slice, not an error.
	SearchSymbols(ctx context.Context, query string) ([]models.Stock, error)

	// FetchQuote returns a single Stock with price fields populated.
	FetchQuote(ctx context.Context, symbol string) (*models.Stock, error)

	// FetchDailySeries returns at most lookbackDays points, ordered
	// ascending by date.
	FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) ([]models.ChartPoint, error)
}

// NewsSource serves company and category news feeds.
type NewsSource interface {
	// CompanyNews returns up to 20 articles from a 7-day trailing window.
	CompanyNews(ctx context.Context, symbol string) ([]models.NewsArticle, error)

	// CategoryNews returns up to 20 articles for a named general category.
	CategoryNews(ctx context.Context, category string) ([]models.NewsArticle, error)
}

// ProfileSource serves static company metadata.
type ProfileSource interface {
	CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}

// Metrics records upstream call outcomes.
type Metrics interface {
	RecordUpstreamRequest(provider, op string)
	RecordUpstreamError(provider, op, kind string)
	RecordUpstreamLatency(provider, op string, seconds float64)
	RecordPartialFailure(op string)
}
