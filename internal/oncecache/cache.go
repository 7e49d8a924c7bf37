// Package oncecache memoizes build outcomes for the lifetime of a process.
//
// Each key is built at most once. Concurrent callers for the same key share
// the single in-flight build; later callers read the stored outcome. Failures
// are stored like successes and are never retried; a build that panics is
// stored as an internal error. There is no eviction.
package oncecache

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
	"git.home.luguber.info/inful/testbin/internal/logfields"
	"git.home.luguber.info/inful/testbin/internal/metrics"
)

// Key identifies one binary of one source directory.
type Key struct {
	Binary string
	Dir    string
}

// NewKey returns the key for binary in dir; dir is cleaned lexically.
func NewKey(binary, dir string) Key {
	return Key{Binary: binary, Dir: filepath.Clean(dir)}
}

func (k Key) String() string {
	return k.Binary + "@" + k.Dir
}

// Outcome is a stored build result: a path or an error.
type Outcome struct {
	Path string
	Err  error
}

func (k Key) groupKey() string {
	return k.Binary + "\x00" + k.Dir
}

// Cache is safe for concurrent use. The zero value is ready to use.
type Cache struct {
	mu       sync.RWMutex
	outcomes map[Key]Outcome
	group    singleflight.Group
	builds   atomic.Int64
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New returns an empty cache reporting lookups to recorder and logger. Both
// may be nil.
func New(recorder metrics.Recorder, logger *slog.Logger) *Cache {
	return &Cache{recorder: recorder, logger: logger}
}

// BuildFunc produces the outcome for a key.
type BuildFunc func(ctx context.Context) (string, error)

// Get returns the stored outcome for key, running build if none exists yet.
// The context of the caller that runs build is the one passed to it; waiting
// callers are not released early when their own context ends.
func (c *Cache) Get(ctx context.Context, key Key, build BuildFunc) (string, error) {
	rec := metrics.OrNoop(c.recorder)
	if r, ok := c.lookup(key); ok {
		rec.IncCacheLookup(true)
		c.logLookup(ctx, key, true)
		return r.Path, r.Err
	}
	rec.IncCacheLookup(false)
	c.logLookup(ctx, key, false)

	v, _, _ := c.group.Do(key.groupKey(), func() (any, error) {
		// A build for this key may have finished between lookup and Do.
		if r, ok := c.lookup(key); ok {
			return r, nil
		}
		c.builds.Add(1)
		path, err := runBuild(ctx, key, build)
		r := Outcome{Path: path, Err: err}
		c.store(key, r)
		return r, nil
	})
	r := v.(Outcome)
	return r.Path, r.Err
}

// runBuild calls build, turning a panic into an error so the outcome is
// stored like any other.
func runBuild(ctx context.Context, key Key, build BuildFunc) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			path = ""
			err = ferrors.InternalError("build panicked").
				WithContext("binary", key.Binary).
				WithContext("dir", key.Dir).
				WithContext("panic", fmt.Sprint(r)).
				WithDetail(string(debug.Stack())).
				Build()
		}
	}()
	return build(ctx)
}

func (c *Cache) logLookup(ctx context.Context, key Key, hit bool) {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "Build cache lookup",
		logfields.Binary(key.Binary),
		logfields.Dir(key.Dir),
		logfields.CacheHit(hit))
}

// Len returns the number of stored outcomes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.outcomes)
}

// Builds returns how many times a build function was run.
func (c *Cache) Builds() int {
	return int(c.builds.Load())
}

func (c *Cache) lookup(key Key) (Outcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.outcomes[key]
	return r, ok
}

func (c *Cache) store(key Key, r Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = make(map[Key]Outcome)
	}
	c.outcomes[key] = r
}
