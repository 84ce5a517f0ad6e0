package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"StockPulse/internal/domain/models"

	"github.com/stretchr/testify/require"
)

type fakeMarket struct {
	mu         sync.Mutex
	searchHits []models.Stock
	searchErr  error
	quotes     map[string]*models.Stock
	quoteErrs  map[string]error
	quoteCalls []string
}

func (f *fakeMarket) Name() string { return "fake" }

func (f *fakeMarket) SearchSymbols(ctx context.Context, query string) ([]models.Stock, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchHits, nil
}

func (f *fakeMarket) FetchQuote(ctx context.Context, symbol string) (*models.Stock, error) {
	f.mu.Lock()
	f.quoteCalls = append(f.quoteCalls, symbol)
	f.mu.Unlock()
	if err, ok := f.quoteErrs[symbol]; ok {
		return nil, err
	}
	if q, ok := f.quotes[symbol]; ok {
		out := *q
		return &out, nil
	}
	return &models.Stock{Symbol: symbol, Price: 100, HasQuote: true}, nil
}

func (f *fakeMarket) FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) ([]models.ChartPoint, error) {
	return []models.ChartPoint{{Date: "2026-08-28", Close: 100}}, nil
}

func (f *fakeMarket) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.quoteCalls))
	copy(out, f.quoteCalls)
	return out
}

type fakeNews struct {
	companyCalls  []string
	categoryCalls []string
	articles      []models.NewsArticle
}

func (f *fakeNews) CompanyNews(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	f.companyCalls = append(f.companyCalls, symbol)
	return f.articles, nil
}

func (f *fakeNews) CategoryNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	f.categoryCalls = append(f.categoryCalls, category)
	return f.articles, nil
}

func hits(n int) []models.Stock {
	out := make([]models.Stock, n)
	for i := range out {
		out[i] = models.Stock{Symbol: fmt.Sprintf("S%d", i), Name: fmt.Sprintf("Stock %d", i)}
	}
	return out
}

func TestSearchWithQuotesCapsFanOut(t *testing.T) {
	market := &fakeMarket{searchHits: hits(8)}
	agg := NewStockAggregator(market, nil, nil, nil, nil, nil)

	batch, err := agg.SearchWithQuotes(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, batch.Stocks, 5)
	require.Len(t, market.calls(), 5)
	require.Empty(t, batch.Failed)
	for _, s := range batch.Stocks {
		require.True(t, s.HasQuote)
		require.InDelta(t, 100.0, s.Price, 1e-9)
	}
}

func TestSearchWithQuotesKeepsFailedMembership(t *testing.T) {
	market := &fakeMarket{
		searchHits: hits(3),
		quoteErrs: map[string]error{
			"S1": &models.TransportError{Provider: "fake", Op: "quote", Err: errors.New("timeout")},
		},
	}
	agg := NewStockAggregator(market, nil, nil, nil, nil, nil)

	batch, err := agg.SearchWithQuotes(context.Background(), "s")
	require.NoError(t, err)
	require.Len(t, batch.Stocks, 3)
	require.Equal(t, []string{"S1"}, batch.Failed)

	// the failed record stays in place with search fields intact
	require.Equal(t, "S1", batch.Stocks[1].Symbol)
	require.Equal(t, "Stock 1", batch.Stocks[1].Name)
	require.False(t, batch.Stocks[1].HasQuote)
	require.Zero(t, batch.Stocks[1].Price)

	require.True(t, batch.Stocks[0].HasQuote)
	require.True(t, batch.Stocks[2].HasQuote)
}

func TestSearchWithQuotesSearchErrorPropagates(t *testing.T) {
	market := &fakeMarket{searchErr: &models.TransportError{Provider: "fake", Op: "search", Err: errors.New("down")}}
	agg := NewStockAggregator(market, nil, nil, nil, nil, nil)

	_, err := agg.SearchWithQuotes(context.Background(), "s")
	var terr *models.TransportError
	require.ErrorAs(t, err, &terr)
	require.Empty(t, market.calls())
}

func TestPopularQuotesNeverErrors(t *testing.T) {
	watchlist := []string{"AAPL", "MSFT", "TSLA"}
	market := &fakeMarket{
		quoteErrs: map[string]error{
			"AAPL": errors.New("boom"),
			"MSFT": errors.New("boom"),
			"TSLA": errors.New("boom"),
		},
	}
	agg := NewStockAggregator(market, nil, nil, nil, nil, watchlist)

	batch := agg.PopularQuotes(context.Background())
	require.NotNil(t, batch)
	require.Empty(t, batch.Stocks)
	require.ElementsMatch(t, watchlist, batch.Failed)
}

func TestPopularQuotesPartialSuccess(t *testing.T) {
	watchlist := []string{"AAPL", "MSFT", "TSLA"}
	market := &fakeMarket{
		quoteErrs: map[string]error{"MSFT": errors.New("boom")},
	}
	agg := NewStockAggregator(market, nil, nil, nil, nil, watchlist)

	batch := agg.PopularQuotes(context.Background())
	require.Len(t, batch.Stocks, 2)
	require.Equal(t, []string{"MSFT"}, batch.Failed)
	for _, s := range batch.Stocks {
		require.True(t, s.HasQuote)
	}
}

func TestNewsSymbolSelectsCompanyFeed(t *testing.T) {
	news := &fakeNews{articles: []models.NewsArticle{{Headline: "a", Datetime: 1756500000}}}
	agg := NewStockAggregator(&fakeMarket{}, news, nil, nil, nil, nil)

	articles, err := agg.News(context.Background(), "aapl", "crypto")
	require.NoError(t, err)
	require.Equal(t, []string{"AAPL"}, news.companyCalls)
	require.Empty(t, news.categoryCalls)
	require.NotEmpty(t, articles[0].Published)
}

func TestNewsEmptySymbolSelectsCategoryFeed(t *testing.T) {
	news := &fakeNews{}
	agg := NewStockAggregator(&fakeMarket{}, news, nil, nil, nil, nil)

	articles, err := agg.News(context.Background(), "", "forex")
	require.NoError(t, err)
	require.Equal(t, []string{"forex"}, news.categoryCalls)
	require.Empty(t, news.companyCalls)
	require.Empty(t, articles)
}

func TestDailySeriesDefaultsDays(t *testing.T) {
	market := &fakeMarket{}
	agg := NewStockAggregator(market, nil, nil, nil, nil, nil)

	points, err := agg.DailySeries(context.Background(), "aapl", 0)
	require.NoError(t, err)
	require.Len(t, points, 1)
}
