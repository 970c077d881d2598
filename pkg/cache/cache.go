// Package cache provides the byte-level cache backends used for upstream
// HTTP responses.
//
// Four backends implement [Cache]:
//   - [FileCache]: one JSON file per key under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, expiry handled by Redis
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: never stores anything (caching disabled)
//
// Keys are produced by a [Keyer] so that every backend sees the same
// layout. [ScopedKeyer] adds a prefix for shared backends.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of 0 passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey returns the key for an HTTP response from the given namespace
	// (e.g. "bintray:", "github:").
	HTTPKey(namespace, key string) string
}

// DefaultKeyer produces "http:<namespace>:<key>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}
