package finnhub

import (
	"context"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/service/upstream"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const providerName = "finnhub"

const (
	maxSearchResults = 10
	maxNewsArticles  = 20
	companyNewsDays  = 7
)

// Client implements repository.MarketData, NewsSource and ProfileSource
// backed by the Finnhub REST API.
type Client struct {
	apiKey  string
	baseURL string
	caller  *upstream.Caller
	now     func() time.Time
}

// New creates a Finnhub client.
func New(apiKey, baseURL string, httpClient *xhttp.Client, m repository.Metrics, retryBackoff time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		caller: &upstream.Caller{
			Provider: providerName,
			Client:   httpClient,
			Metrics:  m,
			Backoff:  retryBackoff,
		},
		now: time.Now,
	}
}

func (c *Client) Name() string { return providerName }

type searchResponse struct {
	Count  int           `json:"count"`
	Result []searchEntry `json:"result"`
}

type searchEntry struct {
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// SearchSymbols queries /search. Results keep upstream relevance order and
// carry no live quote.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.Stock, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Stock{}, nil
	}

	var resp searchResponse
	err := c.caller.GetJSON(ctx, "search", "", c.baseURL+"/search", map[string]string{
		"q":     query,
		"token": c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	entries := resp.Result
	if len(entries) > maxSearchResults {
		entries = entries[:maxSearchResults]
	}
	stocks := make([]models.Stock, 0, len(entries))
	for _, e := range entries {
		stocks = append(stocks, models.Stock{
			Symbol: e.Symbol,
			Name:   e.Description,
		})
	}
	return stocks, nil
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"` // already a percent number, no division needed
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// FetchQuote queries /quote, then /stock/profile2 for the display name and
// sector. The profile call is best-effort: its failure leaves the name
// defaulted to the ticker and the sector unset.
func (c *Client) FetchQuote(ctx context.Context, symbol string) (*models.Stock, error) {
	var resp quoteResponse
	err := c.caller.GetJSON(ctx, "quote", symbol, c.baseURL+"/quote", map[string]string{
		"symbol": symbol,
		"token":  c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	// Finnhub answers unknown symbols with an all-zero quote body.
	if resp.Current == 0 && resp.PrevClose == 0 && resp.Timestamp == 0 {
		return nil, &models.UpstreamDataError{
			Provider: providerName,
			Op:       "quote",
			Symbol:   symbol,
			Reason:   "no quote data for symbol",
		}
	}

	stock := &models.Stock{
		Symbol:        symbol,
		Name:          symbol,
		Price:         resp.Current,
		Change:        resp.Change,
		ChangePercent: resp.ChangePercent,
		HasQuote:      true,
		High:          resp.High,
		Low:           resp.Low,
		Open:          resp.Open,
		PrevClose:     resp.PrevClose,
	}

	if profile, err := c.CompanyProfile(ctx, symbol); err == nil {
		if profile.Name != "" {
			stock.Name = profile.Name
		}
		stock.Sector = profile.Industry
		stock.Currency = profile.Currency
	}

	return stock, nil
}

type candleResponse struct {
	Close     []float64 `json:"c"`
	High      []float64 `json:"h"`
	Low       []float64 `json:"l"`
	Open      []float64 `json:"o"`
	Timestamp []int64   `json:"t"`
	Volume    []float64 `json:"v"`
	Status    string    `json:"s"`
}

// FetchDailySeries queries /stock/candle over an explicit epoch window of
// lookbackDays ending now. Candles arrive as parallel arrays in native
// ascending order.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) ([]models.ChartPoint, error) {
	to := c.now().Unix()
	from := to - int64(lookbackDays)*86400

	var resp candleResponse
	err := c.caller.GetJSON(ctx, "daily_series", symbol, c.baseURL+"/stock/candle", map[string]string{
		"symbol":     symbol,
		"resolution": "D",
		"from":       formatInt(from),
		"to":         formatInt(to),
		"token":      c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Status != "ok" || len(resp.Close) == 0 {
		return nil, &models.UpstreamDataError{
			Provider: providerName,
			Op:       "daily_series",
			Symbol:   symbol,
			Reason:   "no candle data, status " + resp.Status,
		}
	}

	points := make([]models.ChartPoint, 0, len(resp.Close))
	for i, closePrice := range resp.Close {
		p := models.ChartPoint{Close: closePrice}
		if i < len(resp.Timestamp) {
			p.Date = time.Unix(resp.Timestamp[i], 0).UTC().Format("2006-01-02")
		}
		if i < len(resp.Open) {
			p.Open = resp.Open[i]
		}
		if i < len(resp.High) {
			p.High = resp.High[i]
		}
		if i < len(resp.Low) {
			p.Low = resp.Low[i]
		}
		if i < len(resp.Volume) {
			p.Volume = resp.Volume[i]
		}
		points = append(points, p)
	}
	if len(points) > lookbackDays {
		points = points[len(points)-lookbackDays:]
	}
	return points, nil
}

type profileResponse struct {
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"` // millions of currency units
	Name                 string  `json:"name"`
	ShareOutstanding     float64 `json:"shareOutstanding"`
	Ticker               string  `json:"ticker"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
	Industry             string  `json:"finnhubIndustry"`
}

// CompanyProfile queries /stock/profile2. An empty body means the symbol is
// unknown (Finnhub answers 200 with {}).
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	var resp profileResponse
	err := c.caller.GetJSON(ctx, "profile", symbol, c.baseURL+"/stock/profile2", map[string]string{
		"symbol": symbol,
		"token":  c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Name == "" && resp.Ticker == "" {
		return nil, &models.UpstreamDataError{
			Provider: providerName,
			Op:       "profile",
			Symbol:   symbol,
			Reason:   "no profile data for symbol",
		}
	}

	marketCap := resp.MarketCapitalization * 1e6
	return &models.CompanyProfile{
		Symbol:            symbol,
		Name:              resp.Name,
		Exchange:          resp.Exchange,
		Country:           resp.Country,
		Currency:          resp.Currency,
		MarketCap:         marketCap,
		MarketCapText:     util.FormatMarketCap(marketCap),
		SharesOutstanding: resp.ShareOutstanding,
		Industry:          resp.Industry,
		Logo:              resp.Logo,
		WebURL:            resp.WebURL,
		IPO:               resp.IPO,
	}, nil
}

type newsEntry struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews queries /company-news over a 7-day trailing window ending now.
// An empty upstream array is a valid zero-article result.
func (c *Client) CompanyNews(ctx context.Context, symbol string) ([]models.NewsArticle, error) {
	to := c.now()
	from := to.AddDate(0, 0, -companyNewsDays)

	var resp []newsEntry
	err := c.caller.GetJSON(ctx, "company_news", symbol, c.baseURL+"/company-news", map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"token":  c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapNews(resp), nil
}

// CategoryNews queries /news for a named general category with no date window.
func (c *Client) CategoryNews(ctx context.Context, category string) ([]models.NewsArticle, error) {
	if category == "" {
		category = "general"
	}

	var resp []newsEntry
	err := c.caller.GetJSON(ctx, "category_news", "", c.baseURL+"/news", map[string]string{
		"category": category,
		"token":    c.apiKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapNews(resp), nil
}

func mapNews(entries []newsEntry) []models.NewsArticle {
	if len(entries) > maxNewsArticles {
		entries = entries[:maxNewsArticles]
	}
	articles := make([]models.NewsArticle, 0, len(entries))
	for _, e := range entries {
		articles = append(articles, models.NewsArticle{
			ID:       e.ID,
			Headline: e.Headline,
			Summary:  e.Summary,
			Source:   e.Source,
			Category: e.Category,
			Datetime: e.Datetime,
			URL:      e.URL,
			Image:    e.Image,
			Related:  e.Related,
		})
	}
	return articles
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
