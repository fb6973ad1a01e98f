// Package query is the client-side cache between page controllers and
// the API client. Entries are keyed by (operation, serialized
// parameters); at most one request per key is in flight at any time.
//
// The cache is an explicit, injectable service: it is constructed with
// its own clock and TTL so tests can control staleness, and it holds
// no knowledge of the transport behind the fetch functions it runs.
package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const keySep = "|"

// Key builds the canonical cache key for an operation and its
// parameters, e.g. Key("search", "ai", 2, 10) -> "search|ai|2|10".
func Key(op string, params ...any) string {
	if len(params) == 0 {
		return op
	}
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, op)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, keySep)
}

type entry struct {
	value     any
	fetchedAt time.Time
}

type Cache struct {
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger

	mu      sync.RWMutex
	entries map[string]entry

	group singleflight.Group
	seq   atomic.Uint64
}

// New returns a cache whose entries turn stale after ttl. A nil clock
// defaults to time.Now.
func New(ttl time.Duration, clock func() time.Time, log zerolog.Logger) *Cache {
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     clock,
		log:     log,
		entries: make(map[string]entry),
	}
}

// Lookup returns the cached value for key, whether one exists, and
// whether it is stale. Stale values are still returned so views can
// show them while a refetch runs.
func (c *Cache) Lookup(key string) (any, bool, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, false
	}
	return e.value, true, c.now().Sub(e.fetchedAt) > c.ttl
}

// Fetch returns the cached value for key when fresh, otherwise runs fn
// and stores its result. Concurrent calls for the same key share a
// single fn invocation. Errors are returned but never cached, so the
// next Fetch retries.
func (c *Cache) Fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if v, ok, stale := c.Lookup(key); ok && !stale {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have refreshed the entry while this
		// one waited on the flight group.
		if v, ok, stale := c.Lookup(key); ok && !stale {
			return v, nil
		}

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = entry{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		c.log.Debug().Str("key", key).Msg("cache store")
		return v, nil
	})
	return v, err
}

// Invalidate drops the given keys. Mutations call this instead of
// writing results into the cache directly, so the next read refetches
// server state.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// InvalidatePrefix drops every key belonging to an operation.
func (c *Cache) InvalidatePrefix(op string) {
	prefix := op + keySep
	c.mu.Lock()
	for key := range c.entries {
		if key == op || strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Next returns a fresh request identifier. Controllers stamp each
// issued fetch with one and discard results whose identifier is not
// the latest they issued, which keeps fast parameter changes from
// rendering an out-of-order completion.
func (c *Cache) Next() uint64 {
	return c.seq.Add(1)
}

// FetchAs is a typed wrapper over Cache.Fetch.
func FetchAs[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// LookupAs is a typed wrapper over Cache.Lookup.
func LookupAs[T any](c *Cache, key string) (T, bool, bool) {
	v, ok, stale := c.Lookup(key)
	if !ok {
		var zero T
		return zero, false, false
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, false, false
	}
	return t, true, stale
}
