// Package cache provides byte-level caching for layouts, rendered artifacts
// and catalog API responses.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per key under the XDG cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP API deployments)
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// Keys are built by a [Keyer] so that every entry point (CLI, API) derives the
// same key for the same inputs. [NewCatalogKeyer] scopes keys to one catalog
// backend so that a shared Redis never mixes entries from different catalogs.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLHTTP     = time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Expired entries are reported as misses. A ttl of 0 means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string // file (default), redis or none
	Dir      string // FileCache root
	RedisURL string // RedisCache connection URL
	Prefix   string // RedisCache key prefix
}

// Open creates the cache described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

// NullCache never stores anything: every Get is a miss. It backs --no-cache,
// the "none" backend and clients created without a cache.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
