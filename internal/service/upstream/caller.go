package upstream

import (
	"context"
	"errors"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	xhttp "StockPulse/pkg/http"
)

// Caller wraps the shared HTTP client with error classification, a single
// transport retry, and metrics for one provider. Data errors are never
// retried; they are not transient.
type Caller struct {
	Provider string
	Client   *xhttp.Client
	Metrics  repository.Metrics // optional
	Backoff  time.Duration      // retry delay after a transport failure; 0 disables the retry
}

// GetJSON performs a GET against rawurl with query params and decodes the
// JSON body into dest. Failed requests and non-2xx statuses come back as
// *models.TransportError, unparseable bodies as *models.UpstreamDataError.
func (c *Caller) GetJSON(ctx context.Context, op, symbol, rawurl string, query map[string]string, dest interface{}) error {
	start := time.Now()
	if c.Metrics != nil {
		c.Metrics.RecordUpstreamRequest(c.Provider, op)
		defer func() {
			c.Metrics.RecordUpstreamLatency(c.Provider, op, time.Since(start).Seconds())
		}()
	}

	err := c.send(ctx, op, symbol, rawurl, query, dest)

	var terr *models.TransportError
	if errors.As(err, &terr) && c.Backoff > 0 {
		t := time.NewTimer(c.Backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			err = &models.TransportError{Provider: c.Provider, Op: op, Err: ctx.Err()}
		case <-t.C:
			err = c.send(ctx, op, symbol, rawurl, query, dest)
		}
	}

	if err != nil && c.Metrics != nil {
		kind := "data"
		if errors.As(err, &terr) {
			kind = "transport"
		}
		c.Metrics.RecordUpstreamError(c.Provider, op, kind)
	}
	return err
}

func (c *Caller) send(ctx context.Context, op, symbol, rawurl string, query map[string]string, dest interface{}) error {
	err := c.Client.SendAndParse(ctx, &xhttp.RequestOptions{
		URL:         rawurl,
		QueryParams: query,
	}, dest)
	if err == nil {
		return nil
	}

	var derr *xhttp.DecodeError
	if errors.As(err, &derr) {
		return &models.UpstreamDataError{
			Provider: c.Provider,
			Op:       op,
			Symbol:   symbol,
			Reason:   derr.Error(),
		}
	}
	return &models.TransportError{Provider: c.Provider, Op: op, Err: err}
}
