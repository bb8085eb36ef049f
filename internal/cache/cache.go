// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/jeranaias/thematic/internal/netprobe"
)

// =============================================================================
// TTL
// =============================================================================

const (
	ExcellentTTL = 5 * time.Minute
	GoodTTL      = 10 * time.Minute
	PoorTTL      = 30 * time.Minute

	// MaxStaleAge is the default age limit for fallback reuse of expired
	// entries.
	MaxStaleAge = time.Hour
)

// TTL returns the freshness window for a network tier.
func TTL(q netprobe.Quality) time.Duration {
	switch q {
	case netprobe.Excellent:
		return ExcellentTTL
	case netprobe.Good:
		return GoodTTL
	default:
		return PoorTTL
	}
}

// =============================================================================
// CACHE
// =============================================================================

// Entry is one cached payload.
type Entry struct {
	Data      map[string]any
	Timestamp time.Time
	ETag      string
}

// Age reports how old the entry is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Stats holds cache statistics.
type Stats struct {
	Hits       int
	Misses     int
	StaleHits  int
	Expired    int
	EntryCount int
	Quality    netprobe.Quality
	HitRate    float64
}

// Options configures a Cache.
type Options struct {
	// Quality is the initial tier used for TTLs. The zero value is Poor.
	Quality netprobe.Quality
	// MaxStaleAge is how long expired entries are kept for Stale. Zero
	// means the package MaxStaleAge.
	MaxStaleAge time.Duration
	Now         func() time.Time
}

// Cache is an in-memory payload cache with quality-tiered TTLs.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	quality netprobe.Quality
	retain  time.Duration
	now     func() time.Time

	hits      int
	misses    int
	staleHits int
	expired   int
}

// New creates an empty Cache.
func New(opts Options) *Cache {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	retain := opts.MaxStaleAge
	if retain <= 0 {
		retain = MaxStaleAge
	}
	return &Cache{
		entries: make(map[string]Entry),
		quality: opts.Quality,
		retain:  retain,
		now:     now,
	}
}

// Retain extends how long expired entries are kept to at least d. It never
// shortens retention.
func (c *Cache) Retain(d time.Duration) {
	c.mu.Lock()
	if d > c.retain {
		c.retain = d
	}
	c.mu.Unlock()
}

// Retention returns how long expired entries are kept.
func (c *Cache) Retention() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.retain
}

// SetQuality records the latest network tier. It changes the TTL of every
// entry, including ones already stored.
func (c *Cache) SetQuality(q netprobe.Quality) {
	c.mu.Lock()
	c.quality = q
	c.mu.Unlock()
}

// Quality returns the tier currently used for TTLs.
func (c *Cache) Quality() netprobe.Quality {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quality
}

// Get returns a fresh entry. Entries older than the current TTL are a miss;
// they stay available to Stale until they pass the retention age, at which
// point Get deletes them.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return Entry{}, false
	}
	if age := entry.Age(c.now()); age > TTL(c.quality) {
		if age > c.retain {
			delete(c.entries, key)
		}
		c.expired++
		c.misses++
		return Entry{}, false
	}

	c.hits++
	return copyEntry(entry), true
}

// Stale returns an entry regardless of TTL as long as it is no older than
// maxAge. It never deletes.
func (c *Cache) Stale(key string, maxAge time.Duration) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.Age(c.now()) > maxAge {
		return Entry{}, false
	}
	c.staleHits++
	return copyEntry(entry), true
}

// Put stores data under key with the current time.
func (c *Cache) Put(key string, data map[string]any, etag string) Entry {
	entry := Entry{Data: maps.Clone(data), Timestamp: c.now(), ETag: etag}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return copyEntry(entry)
}

// Invalidate removes key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes every entry. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
}

// Keys returns the stored keys, sorted. Expired entries that have not been
// looked up yet are included.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hitRate := 0.0
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		StaleHits:  c.staleHits,
		Expired:    c.expired,
		EntryCount: len(c.entries),
		Quality:    c.quality,
		HitRate:    hitRate,
	}
}

// copyEntry gives callers their own top-level map.
func copyEntry(e Entry) Entry {
	e.Data = maps.Clone(e.Data)
	return e
}
