package usecase

import (
	"context"
	"strings"
	"sync"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// maxQuoteFanOut bounds how many search hits get a live quote attached.
const maxQuoteFanOut = 5

// StockAggregator composes provider operations into the views the frontend
// renders. Fan-out operations join with "wait for all, keep the successes"
// semantics: one rate-limited or delisted symbol never blanks out a batch.
// The aggregator holds no state and performs no memoization; every call is a
// fresh upstream fetch.
type StockAggregator struct {
	market    repository.MarketData
	news      repository.NewsSource
	profile   repository.ProfileSource
	metrics   repository.Metrics
	logger    *applogger.Logger
	watchlist []string
}

// NewStockAggregator creates the aggregator. news and profile may be nil when
// the selected provider does not serve those capabilities.
func NewStockAggregator(
	market repository.MarketData,
	news repository.NewsSource,
	profile repository.ProfileSource,
	metrics repository.Metrics,
	logger *applogger.Logger,
	watchlist []string,
) *StockAggregator {
	return &StockAggregator{
		market:    market,
		news:      news,
		profile:   profile,
		metrics:   metrics,
		logger:    logger,
		watchlist: watchlist,
	}
}

// DailySeries returns at most days chart points, oldest first.
func (a *StockAggregator) DailySeries(ctx context.Context, symbol string, days int) ([]models.ChartPoint, error) {
	if days <= 0 {
		days = 30
	}
	return a.market.FetchDailySeries(ctx, strings.ToUpper(symbol), days)
}

// Quote returns one live quote.
func (a *StockAggregator) Quote(ctx context.Context, symbol string) (*models.Stock, error) {
	return a.market.FetchQuote(ctx, strings.ToUpper(symbol))
}

// SearchSymbols returns up to 10 matches with zeroed price fields.
func (a *StockAggregator) SearchSymbols(ctx context.Context, query string) ([]models.Stock, error) {
	return a.market.SearchSymbols(ctx, query)
}

// SearchWithQuotes searches, keeps the first maxQuoteFanOut hits and attaches
// live quotes to them concurrently. A failed quote sub-call degrades that
// record's fields, never its membership; only a failed search propagates.
func (a *StockAggregator) SearchWithQuotes(ctx context.Context, query string) (*models.QuoteBatch, error) {
	results, err := a.market.SearchSymbols(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) > maxQuoteFanOut {
		results = results[:maxQuoteFanOut]
	}

	symbols := make([]string, len(results))
	for i, s := range results {
		symbols[i] = s.Symbol
	}

	batch := &models.QuoteBatch{Stocks: results}
	for _, r := range a.fanOutQuotes(ctx, symbols) {
		if r.err != nil {
			batch.Failed = append(batch.Failed, r.symbol)
			a.recordPartialFailure("search_with_quotes", r.symbol, r.err)
			continue
		}
		batch.Stocks[r.idx].MergeQuote(r.stock)
	}
	return batch, nil
}

// PopularQuotes fetches live quotes for the fixed watchlist. The batch holds
// whichever quotes resolved, in settlement order; it is never an error, even
// when every symbol fails — callers treat an empty batch as "try again".
func (a *StockAggregator) PopularQuotes(ctx context.Context) *models.QuoteBatch {
	batch := &models.QuoteBatch{Stocks: []models.Stock{}}
	for _, r := range a.fanOutQuotes(ctx, a.watchlist) {
		if r.err != nil {
			batch.Failed = append(batch.Failed, r.symbol)
			a.recordPartialFailure("popular_quotes", r.symbol, r.err)
			continue
		}
		batch.Stocks = append(batch.Stocks, *r.stock)
	}
	return batch
}

// News returns up to 20 articles, newest first in upstream order. A non-empty
// symbol selects the 7-day company feed, otherwise the named category feed.
// Zero articles is a valid result.
func (a *StockAggregator) News(ctx context.Context, symbol, category string) ([]models.NewsArticle, error) {
	var (
		articles []models.NewsArticle
		err      error
	)
	if symbol != "" {
		articles, err = a.news.CompanyNews(ctx, strings.ToUpper(symbol))
	} else {
		articles, err = a.news.CategoryNews(ctx, category)
	}
	if err != nil {
		return nil, err
	}

	for i := range articles {
		articles[i].Published = util.FormatNewsDate(articles[i].Datetime)
	}
	return articles, nil
}

// Profile returns static company metadata.
func (a *StockAggregator) Profile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	return a.profile.CompanyProfile(ctx, strings.ToUpper(symbol))
}

type quoteResult struct {
	idx    int
	symbol string
	stock  *models.Stock
	err    error
}

// fanOutQuotes issues one FetchQuote per symbol concurrently and waits for
// all of them. Results arrive in settlement order; idx maps back to the
// input position.
func (a *StockAggregator) fanOutQuotes(ctx context.Context, symbols []string) []quoteResult {
	ch := make(chan quoteResult, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(idx int, symbol string) {
			defer wg.Done()
			stock, err := a.market.FetchQuote(ctx, symbol)
			ch <- quoteResult{idx: idx, symbol: symbol, stock: stock, err: err}
		}(i, symbol)
	}
	wg.Wait()
	close(ch)

	out := make([]quoteResult, 0, len(symbols))
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func (a *StockAggregator) recordPartialFailure(op, symbol string, err error) {
	if a.metrics != nil {
		a.metrics.RecordPartialFailure(op)
	}
	if a.logger != nil {
		a.logger.Warn("quote fan-out sub-request failed",
			applogger.String("op", op),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	}
}
