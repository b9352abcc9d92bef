package eval

import (
	"github.com/herohde/gomoku/pkg/board"
)

// Cache is a bounded per-worker evaluation cache keyed by position hash. A
// Full entry satisfies any probe; a Tactical entry only satisfies a Tactical
// probe. On overflow, a quarter of the entries is dropped in map iteration
// order, which Go randomizes. Not thread-safe: each worker owns one.
type Cache struct {
	entries  map[board.ZobristHash]cacheEntry
	capacity int
}

type cacheEntry struct {
	score Score
	mode  Mode
}

// DefaultCacheSize is the per-worker cache capacity.
const DefaultCacheSize = 1 << 17

// NewCache creates a cache with the given capacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		entries:  make(map[board.ZobristHash]cacheEntry, capacity),
		capacity: capacity,
	}
}

// Get returns the cached score, if present at sufficient precision.
func (c *Cache) Get(hash board.ZobristHash, mode Mode) (Score, bool) {
	e, ok := c.entries[hash]
	if !ok {
		return 0, false
	}
	if e.mode == Tactical && mode == Full {
		return 0, false
	}
	return e.score, true
}

// Put stores a score, evicting a quarter of the cache when full. A Full entry
// is never downgraded to Tactical.
func (c *Cache) Put(hash board.ZobristHash, mode Mode, score Score) {
	if e, ok := c.entries[hash]; ok && e.mode == Full && mode == Tactical {
		return
	}
	if len(c.entries) >= c.capacity {
		drop := c.capacity / 4
		if drop < 1 {
			drop = 1
		}
		for k := range c.entries {
			delete(c.entries, k)
			if drop--; drop == 0 {
				break
			}
		}
	}
	c.entries[hash] = cacheEntry{score: score, mode: mode}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
