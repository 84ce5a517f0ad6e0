package cache

import "time"

// BytesCache is a minimal cache API storing serialized responses with TTL.
// Caching happens only at the HTTP handler edge; the aggregation layer below
// it never memoizes.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
