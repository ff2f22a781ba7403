package img2ascii

import (
	"sync"
	"sync/atomic"
)

// BrightnessCache memoizes block luminance by block content. Entries are
// never evicted: the cache grows with the number of distinct block
// contents seen, not with image size. It is safe for concurrent use; two
// goroutines missing on the same key both store the same value.
type BrightnessCache struct {
	mu      sync.RWMutex
	entries map[BlockKey]float64

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns hits as a fraction of all lookups, or 0 before the
// first lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewBrightnessCache returns an empty cache.
func NewBrightnessCache() *BrightnessCache {
	return &BrightnessCache{
		entries: make(map[BlockKey]float64),
	}
}

// Luminance returns the cached luminance of b, computing and storing it
// on a miss.
func (c *BrightnessCache) Luminance(b Block) float64 {
	k := b.Key()

	c.mu.RLock()
	lum, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return lum
	}

	c.misses.Add(1)
	lum = Luminance(b)

	c.mu.Lock()
	c.entries[k] = lum
	c.mu.Unlock()
	return lum
}

// Len returns the number of distinct block contents cached.
func (c *BrightnessCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counts and the number of entries.
func (c *BrightnessCache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}
