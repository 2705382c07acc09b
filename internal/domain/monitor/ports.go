package monitor

import (
	"context"
	"time"
)

// Cache is a byte oriented key/value store with per entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Gate decides whether a request carrying credential may proceed.
type Gate interface {
	Authorize(ctx context.Context, credential string) error
}

// UpstreamClient fetches the raw getMonitors payload.
type UpstreamClient interface {
	GetMonitors(ctx context.Context, q Query) ([]byte, error)
}

// Formatter turns a raw upstream payload into the internal schema. dates are the
// window day starts, most recent first.
type Formatter interface {
	Format(raw []byte, dates []time.Time) (MonitorsDataResult, error)
}
