package testbin

import (
	"context"
	"log/slog"
	"testing"

	"git.home.luguber.info/inful/testbin/internal/metrics"
	"git.home.luguber.info/inful/testbin/internal/oncecache"
)

// Cache memoizes build outcomes by binary name and source directory. Each
// key is built at most once; failures are remembered as well. Options other
// than name and directory are not part of the key: the first Builder to
// reach the cache for a key decides how it is built.
type Cache struct {
	cache *oncecache.Cache
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	recorder metrics.Recorder
	logger   *slog.Logger
}

// WithCacheRecorder reports cache hits and misses to r.
func WithCacheRecorder(r metrics.Recorder) CacheOption {
	return func(c *cacheConfig) { c.recorder = r }
}

// WithCacheLogger logs cache lookups to logger at debug level.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *cacheConfig) { c.logger = logger }
}

// NewCache returns an empty cache whose lifetime the caller controls.
func NewCache(opts ...CacheOption) *Cache {
	var cfg cacheConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache{cache: oncecache.New(cfg.recorder, cfg.logger)}
}

// Build returns the memoized outcome for b, building it on first use.
func (c *Cache) Build(ctx context.Context, b Builder) (string, error) {
	return c.cache.Get(ctx, oncecache.NewKey(b.binary, b.dir), b.Build)
}

// Len returns the number of remembered outcomes.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Builds returns how many builds the cache has started.
func (c *Cache) Builds() int {
	return c.cache.Builds()
}

var defaultCache = NewCache()

// BuildOnce is Build memoized for the lifetime of the process.
func BuildOnce(ctx context.Context, name, dir string) (string, error) {
	return defaultCache.Build(ctx, New(name, dir))
}

// MustBuildOnce calls BuildOnce and fails the test on error.
func MustBuildOnce(t testing.TB, name, dir string) string {
	t.Helper()
	path, err := BuildOnce(context.Background(), name, dir)
	if err != nil {
		t.Fatalf("build %s in %s: %v", name, dir, err)
	}
	return path
}
