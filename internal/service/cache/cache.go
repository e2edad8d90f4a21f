package cache

import (
	"context"
	"time"
)

// ResponseCache stores marshalled signal responses with TTL. Keys are
// endpoint-scoped, e.g. "signal:AAPL.US:20".
type ResponseCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
