package alphavantage

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/upstream"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const providerName = "alphavantage"

const maxSearchResults = 10

// Client implements repository.MarketData backed by the Alpha Vantage REST API.
// Alpha Vantage multiplexes everything over one endpoint selected by the
// "function" query parameter and answers with positional field keys
// ("01. symbol", "05. price", ...); those keys never leave this package.
type Client struct {
	apiKey  string
	baseURL string
	caller  *upstream.Caller
}

// New creates an Alpha Vantage market-data client.
func New(apiKey, baseURL string, httpClient *xhttp.Client, m repository.Metrics, retryBackoff time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		caller: &upstream.Caller{
			Provider: providerName,
			Client:   httpClient,
			Metrics:  m,
			Backoff:  retryBackoff,
		},
	}
}

func (c *Client) Name() string { return providerName }

type searchResponse struct {
	BestMatches []searchMatch `json:"bestMatches"`
}

type searchMatch struct {
	Symbol     string `json:"1. symbol"`
	Name       string `json:"2. name"`
	Type       string `json:"3. type"`
	Region     string `json:"4. region"`
	Currency   string `json:"8. currency"`
	MatchScore string `json:"9. matchScore"`
}

// SearchSymbols queries SYMBOL_SEARCH. Results keep upstream relevance order
// and carry no live quote.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.Stock, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Stock{}, nil
	}

	var resp searchResponse
	err := c.caller.GetJSON(ctx, "search", "", c.baseURL, map[string]string{
		"function": "SYMBOL_SEARCH",
		"keywords": query,
		"apikey":   c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	matches := resp.BestMatches
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}
	stocks := make([]models.Stock, 0, len(matches))
	for _, m := range matches {
		stocks = append(stocks, models.Stock{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Region:   m.Region,
			Currency: m.Currency,
		})
	}
	return stocks, nil
}

type quoteResponse struct {
	GlobalQuote globalQuote `json:"Global Quote"`
	Note        string      `json:"Note"`
}

type globalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PrevClose        string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// FetchQuote queries GLOBAL_QUOTE. The percent-change field arrives
// string-encoded with a trailing '%'.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.Stock, error) {
	var resp quoteResponse
	err := c.caller.GetJSON(ctx, "quote", symbol, c.baseURL, map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
		"apikey":   c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	q := resp.GlobalQuote
	if q.Symbol == "" || q.Price == "" {
		return nil, &models.UpstreamDataError{
			Provider: providerName,
			Op:       "quote",
			Symbol:   symbol,
			Reason:   dataErrorReason(resp.Note, "missing quote payload; invalid symbol or API limit reached"),
		}
	}

	changePercent, err := util.ParsePercent(q.ChangePercent)
	if err != nil {
		return nil, &models.UpstreamDataError{
			Provider: providerName,
			Op:       "quote",
			Symbol:   symbol,
			Reason:   "unparseable change percent: " + q.ChangePercent,
		}
	}

	return &models.Stock{
		Symbol:        q.Symbol,
		Name:          q.Symbol, // GLOBAL_QUOTE carries no display name
		Price:         parseFloat(q.Price),
		Change:        parseFloat(q.Change),
		ChangePercent: changePercent,
		HasQuote:      true,
		High:          parseFloat(q.High),
		Low:           parseFloat(q.Low),
		Open:          parseFloat(q.Open),
		PrevClose:     parseFloat(q.PrevClose),
	}, nil
}

type dailyResponse struct {
	TimeSeries map[string]dailyEntry `json:"Time Series (Daily)"`
	Note       string                `json:"Note"`
	ErrorMsg   string                `json:"Error Message"`
}

type dailyEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// FetchDailySeries queries TIME_SERIES_DAILY. The upstream returns a larger
// newest-first history; the most recent lookbackDays entries are kept and
// returned oldest first.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) ([]models.ChartPoint, error) {
	var resp dailyResponse
	err := c.caller.GetJSON(ctx, "daily_series", symbol, c.baseURL, map[string]string{
		"function": "TIME_SERIES_DAILY",
		"symbol":   symbol,
		"apikey":   c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.TimeSeries) == 0 {
		reason := dataErrorReason(resp.ErrorMsg, "missing time series payload; invalid symbol or API limit reached")
		reason = dataErrorReason(resp.Note, reason)
		return nil, &models.UpstreamDataError{
			Provider: providerName,
			Op:       "daily_series",
			Symbol:   symbol,
			Reason:   reason,
		}
	}

	dates := make([]string, 0, len(resp.TimeSeries))
	for d := range resp.TimeSeries {
		dates = append(dates, d)
	}
	sort.Strings(dates) // ISO dates sort chronologically
	if len(dates) > lookbackDays {
		dates = dates[len(dates)-lookbackDays:]
	}

	points := make([]models.ChartPoint, 0, len(dates))
	for _, d := range dates {
		e := resp.TimeSeries[d]
		points = append(points, models.ChartPoint{
			Date:   d,
			Close:  parseFloat(e.Close),
			Open:   parseFloat(e.Open),
			High:   parseFloat(e.High),
			Low:    parseFloat(e.Low),
			Volume: parseFloat(e.Volume),
		})
	}
	return points, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func dataErrorReason(upstream, fallback string) string {
	if upstream != "" {
		return upstream
	}
	return fallback
}
