package models

import "fmt"

// UpstreamDataError means the upstream responded but the payload is unusable:
// unknown symbol, empty series, non-"ok" status, or a missing expected field.
// Not transient, never retried.
type UpstreamDataError struct {
	Provider string
	Op       string
	Symbol   string
	Reason   string
}

func (e *UpstreamDataError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%s %s %s: %s", e.Provider, e.Op, e.Symbol, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Reason)
}

// TransportError means the HTTP call itself failed: network error, timeout,
// or a non-2xx status.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
