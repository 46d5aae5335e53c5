package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for keyed, expiring storage of values
type CacheRepository[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RawRecord is one product payload as decoded from a retailer response
type RawRecord = map[string]any

// RawSearcher fetches raw product payloads for a search term from one retailer
type RawSearcher interface {
	Source() Source
	SearchRaw(ctx context.Context, term string) ([]RawRecord, error)
}
