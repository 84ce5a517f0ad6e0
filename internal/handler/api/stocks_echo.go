package api

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/singleflight"
)

// StocksHandler exposes the aggregation layer to browser frontends. Response
// caching, request coalescing and rate limiting all live here, keeping the
// aggregator itself memoization-free.
type StocksHandler struct {
	logger *xlogger.Logger
	agg    *usecase.StockAggregator

	cache    icache.BytesCache // optional
	cacheTTL time.Duration

	rl         *ratelimit.Limiter // optional
	rlCapacity float64
	rlRefill   float64

	sf singleflight.Group
}

func NewStocksHandler(logger *xlogger.Logger, agg *usecase.StockAggregator) *StocksHandler {
	return &StocksHandler{logger: logger, agg: agg}
}

// SetCache injects a response cache with the TTL applied to every endpoint.
func (h *StocksHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	h.cacheTTL = ttl
}

// SetRateLimit enables per-client token-bucket rate limiting.
func (h *StocksHandler) SetRateLimit(capacity, refillPerSec float64) {
	h.rl = ratelimit.New()
	h.rlCapacity = capacity
	h.rlRefill = refillPerSec
}

func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/search", h.Search)
	g.GET("/quote", h.Quote)
	g.GET("/chart", h.Chart)
	g.GET("/popular", h.Popular)
	g.GET("/news", h.News)
	g.GET("/profile", h.Profile)
}

// Search handles the search box: symbol matches with live quotes attached.
// An empty query is a valid request with an empty batch, not an error.
func (h *StocksHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "search") {
		return xhttp.TooManyRequestsResponse(c)
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return xhttp.SuccessResponse(c, &models.QuoteBatch{Stocks: []models.Stock{}})
	}

	b, err := h.fetch(c.Request().Context(), "search:"+strings.ToLower(query), func(ctx context.Context) (interface{}, error) {
		return h.agg.SearchWithQuotes(ctx, query)
	})
	if err != nil {
		return h.upstreamError(c, "search", err)
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

func (h *StocksHandler) Quote(c echo.Context) error {
	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "quote") {
		return xhttp.TooManyRequestsResponse(c)
	}

	symbol := strings.ToUpper(req.Symbol)
	b, err := h.fetch(c.Request().Context(), "quote:"+symbol, func(ctx context.Context) (interface{}, error) {
		return h.agg.Quote(ctx, symbol)
	})
	if err != nil {
		return h.upstreamError(c, "quote", err)
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

func (h *StocksHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "chart") {
		return xhttp.TooManyRequestsResponse(c)
	}

	symbol := strings.ToUpper(req.Symbol)
	key := "chart:" + symbol + ":" + strconv.Itoa(req.Days)
	b, err := h.fetch(c.Request().Context(), key, func(ctx context.Context) (interface{}, error) {
		return h.agg.DailySeries(ctx, symbol, req.Days)
	})
	if err != nil {
		return h.upstreamError(c, "chart", err)
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

// Popular serves the fixed watchlist with whatever quotes resolved. The
// response is 200 even when every upstream quote failed; the batch's failed
// list tells the frontend to offer a retry.
func (h *StocksHandler) Popular(c echo.Context) error {
	if !h.allow(c, "popular") {
		return xhttp.TooManyRequestsResponse(c)
	}

	b, err := h.fetch(c.Request().Context(), "popular", func(ctx context.Context) (interface{}, error) {
		return h.agg.PopularQuotes(ctx), nil
	})
	if err != nil {
		return h.upstreamError(c, "popular", err)
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

func (h *StocksHandler) News(c echo.Context) error {
	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "news") {
		return xhttp.TooManyRequestsResponse(c)
	}

	symbol := strings.ToUpper(req.Symbol)
	var key string
	if symbol != "" {
		key = "news:symbol:" + symbol
	} else {
		key = "news:category:" + req.Category
	}
	b, err := h.fetch(c.Request().Context(), key, func(ctx context.Context) (interface{}, error) {
		return h.agg.News(ctx, symbol, req.Category)
	})
	if err != nil {
		return h.upstreamError(c, "news", err)
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

func (h *StocksHandler) Profile(c echo.Context) error {
	req := &models.ProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "profile") {
		return xhttp.TooManyRequestsResponse(c)
	}

	symbol := strings.ToUpper(req.Symbol)
	b, err := h.fetch(c.Request().Context(), "profile:"+symbol, func(ctx context.Context) (interface{}, error) {
		return h.agg.Profile(ctx, symbol)
	})
	if err != nil {
		return h.upstreamError(c, "profile", err)
	}
	return xhttp.SuccessResponse(c, json.RawMessage(b))
}

// fetch serves key from cache when possible, otherwise computes the value,
// coalescing concurrent identical requests so a burst of clients triggers a
// single upstream fan-out.
func (h *StocksHandler) fetch(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) ([]byte, error) {
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(key); err != nil {
			h.logger.Warn("cache get error", xlogger.String("key", key), xlogger.Error(err))
		} else if ok {
			return b, nil
		}
	}

	v, err, _ := h.sf.Do(key, func() (interface{}, error) {
		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(res)
		if err != nil {
			return nil, err
		}
		if h.cache != nil {
			if err := h.cache.SetBytes(key, b, h.cacheTTL); err != nil {
				h.logger.Warn("cache set error", xlogger.String("key", key), xlogger.Error(err))
			}
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (h *StocksHandler) allow(c echo.Context, endpoint string) bool {
	if h.rl == nil {
		return true
	}
	if h.rl.Allow(c.RealIP()+":"+endpoint, h.rlCapacity, h.rlRefill) {
		return true
	}
	h.logger.Warn("rate limited",
		xlogger.String("endpoint", endpoint),
		xlogger.String("remote", c.RealIP()),
	)
	return false
}

func (h *StocksHandler) upstreamError(c echo.Context, endpoint string, err error) error {
	h.logger.Error("upstream fetch failed",
		xlogger.String("endpoint", endpoint),
		xlogger.Error(err),
	)

	var dataErr *models.UpstreamDataError
	if errors.As(err, &dataErr) {
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError(dataErr.Error()).WithError(err))
	}
	var transportErr *models.TransportError
	if errors.As(err, &transportErr) {
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayErrorf("%s upstream unavailable", transportErr.Provider).WithError(err))
	}
	return xhttp.AppErrorResponse(c, xhttp.InternalError("unexpected error").WithError(err))
}
