// Package cache provides expiring in-memory caching for verse text read
// from translation and canonical databases.
package cache

import (
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/FocuswithJustin/JuniperParallel/core/ir"
)

// Stats contains cache statistics.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Config contains cache configuration options.
type Config struct {
	// TTL is the time-to-live for entries. Zero or negative means entries
	// never expire.
	TTL time.Duration

	// CleanupInterval is how often expired entries are purged. Zero or
	// negative disables the janitor.
	CleanupInterval time.Duration
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		TTL:             10 * time.Minute,
		CleanupInterval: 15 * time.Minute,
	}
}

// TextCache holds verse lists keyed by source and range. It is safe for
// concurrent use.
type TextCache struct {
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a TextCache.
func New(cfg Config) *TextCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &TextCache{
		cache: gocache.New(ttl, cfg.CleanupInterval),
	}
}

// Key builds the cache key for a source and range.
func Key(source string, r ir.VerseRange) string {
	return source + keySep + r.String()
}

const keySep = "|"

// keySource returns the source part of a key. Range strings never contain
// keySep, so the last separator splits the key.
func keySource(key string) string {
	if i := strings.LastIndex(key, keySep); i >= 0 {
		return key[:i]
	}
	return key
}

// Get returns the cached verses for source over r.
func (c *TextCache) Get(source string, r ir.VerseRange) ([]ir.TextItem, bool) {
	if v, found := c.cache.Get(Key(source, r)); found {
		c.hits.Add(1)
		return v.([]ir.TextItem), true
	}
	c.misses.Add(1)
	return nil, false
}

// Put stores verses for source over r with the default TTL. The slice is
// stored as given; callers must not modify it afterwards.
func (c *TextCache) Put(source string, r ir.VerseRange, items []ir.TextItem) {
	c.cache.SetDefault(Key(source, r), items)
}

// Invalidate drops every entry for source. It returns the number of
// entries removed.
func (c *TextCache) Invalidate(source string) int {
	removed := 0
	for key := range c.cache.Items() {
		if keySource(key) == source {
			c.cache.Delete(key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries.
func (c *TextCache) Clear() {
	c.cache.Flush()
}

// Len returns the number of entries, including expired ones not yet purged.
func (c *TextCache) Len() int {
	return c.cache.ItemCount()
}

// Stats returns cache statistics.
func (c *TextCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.cache.ItemCount(),
	}
}
