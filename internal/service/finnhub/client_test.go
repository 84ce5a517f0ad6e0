package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	httpClient := xhttp.NewClient(xhttp.WithTimeout(2 * time.Second))
	return New("test-token", srv.URL, httpClient, nil, 0)
}

func TestFetchQuoteMergesProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		require.Equal(t, "test-token", r.URL.Query().Get("token"))
		w.Write([]byte(`{"c": 185.92, "d": 2.26, "dp": 1.23, "h": 186.4, "l": 183.1, "o": 184.0, "pc": 183.66, "t": 1756600000}`))
	})
	mux.HandleFunc("/stock/profile2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Apple Inc", "ticker": "AAPL", "finnhubIndustry": "Technology", "currency": "USD"}`))
	})
	c := newTestClient(t, mux)

	stock, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "Apple Inc", stock.Name)
	require.Equal(t, "Technology", stock.Sector)
	require.Equal(t, "USD", stock.Currency)
	require.True(t, stock.HasQuote)
	require.InDelta(t, 1.23, stock.ChangePercent, 1e-9)
}

func TestFetchQuoteProfileFailureIsBestEffort(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 185.92, "pc": 183.66, "t": 1756600000}`))
	})
	mux.HandleFunc("/stock/profile2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	c := newTestClient(t, mux)

	stock, err := c.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL", stock.Name)
	require.Empty(t, stock.Sector)
}

func TestFetchQuoteUnknownSymbol(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 0, "d": 0, "dp": 0, "h": 0, "l": 0, "o": 0, "pc": 0, "t": 0}`))
	})
	c := newTestClient(t, mux)

	_, err := c.FetchQuote(context.Background(), "NOPE")
	var derr *models.UpstreamDataError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "finnhub", derr.Provider)
	require.Equal(t, "NOPE", derr.Symbol)
}

func TestCompanyProfileScalesMarketCap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/profile2", func(w http.ResponseWriter, r *http.Request) {
		// marketCapitalization is reported in millions
		w.Write([]byte(`{"name": "Apple Inc", "ticker": "AAPL", "marketCapitalization": 2500000, "shareOutstanding": 15400}`))
	})
	c := newTestClient(t, mux)

	profile, err := c.CompanyProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 2.5e12, profile.MarketCap, 1)
	require.Equal(t, "$2.50T", profile.MarketCapText)
}

func TestCompanyProfileUnknownSymbol(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/profile2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	c := newTestClient(t, mux)

	_, err := c.CompanyProfile(context.Background(), "NOPE")
	var derr *models.UpstreamDataError
	require.ErrorAs(t, err, &derr)
}

func TestFetchDailySeriesMapsCandles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/candle", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "D", r.URL.Query().Get("resolution"))
		w.Write([]byte(`{
			"s": "ok",
			"c": [100.5, 101.0, 102.5],
			"o": [100.0, 100.6, 101.2],
			"h": [101.0, 101.5, 103.0],
			"l": [99.8, 100.2, 101.0],
			"v": [1000, 1100, 1200],
			"t": [1756300000, 1756386400, 1756472800]
		}`))
	})
	c := newTestClient(t, mux)

	points, err := c.FetchDailySeries(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.InDelta(t, 100.5, points[0].Close, 1e-9)
	require.InDelta(t, 102.5, points[2].Close, 1e-9)
	require.NotEmpty(t, points[0].Date)
}

func TestFetchDailySeriesNoData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/candle", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s": "no_data"}`))
	})
	c := newTestClient(t, mux)

	_, err := c.FetchDailySeries(context.Background(), "NOPE", 30)
	var derr *models.UpstreamDataError
	require.ErrorAs(t, err, &derr)
	require.Contains(t, derr.Reason, "no_data")
}

func TestCompanyNewsWindow(t *testing.T) {
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/company-news", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2026-08-24", r.URL.Query().Get("from"))
		require.Equal(t, "2026-08-31", r.URL.Query().Get("to"))
		w.Write([]byte(`[{"id": 1, "headline": "Apple ships", "datetime": 1756500000}]`))
	})
	c := newTestClient(t, mux)
	c.now = func() time.Time { return fixed }

	articles, err := c.CompanyNews(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "Apple ships", articles[0].Headline)
}

func TestCategoryNewsCapsArticles(t *testing.T) {
	entries := make([]map[string]interface{}, 25)
	for i := range entries {
		entries[i] = map[string]interface{}{"id": i, "headline": fmt.Sprintf("story %d", i)}
	}
	body, err := json.Marshal(entries)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "crypto", r.URL.Query().Get("category"))
		w.Write(body)
	})
	c := newTestClient(t, mux)

	articles, err := c.CategoryNews(context.Background(), "crypto")
	require.NoError(t, err)
	require.Len(t, articles, 20)
	require.Equal(t, "story 0", articles[0].Headline)
}

func TestSearchSymbolsMapsResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "apple", r.URL.Query().Get("q"))
		w.Write([]byte(`{"count": 2, "result": [
			{"symbol": "AAPL", "description": "APPLE INC"},
			{"symbol": "APC.BE", "description": "APPLE INC"}
		]}`))
	})
	c := newTestClient(t, mux)

	stocks, err := c.SearchSymbols(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	require.Equal(t, "AAPL", stocks[0].Symbol)
	require.Equal(t, "APPLE INC", stocks[0].Name)
	require.False(t, stocks[0].HasQuote)
}
