package calendar

import "sync"

// MonthCache holds the per-day counts of at most one month. Put replaces
// whatever month was cached before.
//
// Every invalidation bumps a generation. A fetch records the generation
// before it starts and hands it back to Put, so counts read before a
// mutation are never cached after it.
type MonthCache struct {
	mu     sync.Mutex
	key    MonthKey
	counts map[string]int
	ok     bool
	gen    uint64
}

func NewMonthCache() *MonthCache {
	return &MonthCache{}
}

// Generation is the current invalidation generation.
func (c *MonthCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Get returns a copy of the counts for key, or false on a miss.
func (c *MonthCache) Get(key MonthKey) (map[string]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ok || c.key != key {
		return nil, false
	}
	return copyCounts(c.counts), true
}

// Put caches counts for key unless the cache was invalidated after gen.
// It reports whether the counts were stored.
func (c *MonthCache) Put(key MonthKey, counts map[string]int, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.key = key
	c.counts = copyCounts(counts)
	c.ok = true
	return true
}

// Invalidate drops the counts of key if they are cached.
func (c *MonthCache) Invalidate(key MonthKey) {
	c.mu.Lock()
	c.gen++
	if c.ok && c.key == key {
		c.counts = nil
		c.ok = false
	}
	c.mu.Unlock()
}

// Clear drops whatever month is cached.
func (c *MonthCache) Clear() {
	c.mu.Lock()
	c.gen++
	c.counts = nil
	c.ok = false
	c.mu.Unlock()
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
