package cache

import (
	"slices"
	"sync"
)

// Cache is a generic thread-safe LRU cache with a soft limit.
// When it grows past the limit, the least recently used quarter is evicted.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      uint64 // monotonic access counter
}

type entry[V any] struct {
	value V
	atime uint64
}

// New creates a cache with the given soft limit, at least 1.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: max(softLimit, 1),
	}
}

// GetOrCreate returns the cached value or creates and stores it.
// create runs under the lock, so concurrent callers never build the same
// key twice.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		return e.value
	}
	value := create()
	c.store(key, value)
	return value
}

// store inserts an entry. Caller must hold c.mu.
func (c *Cache[K, V]) store(key K, value V) {
	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	if len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// evictOldest removes the least recently used entries until the cache holds
// three quarters of the soft limit. Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	target := max(c.softLimit*3/4, 1)
	toEvict := len(c.entries) - target
	if toEvict <= 0 {
		return
	}

	type aged struct {
		key   K
		atime uint64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, atime: e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int {
		switch {
		case a.atime < b.atime:
			return -1
		case a.atime > b.atime:
			return 1
		}
		return 0
	})
	for _, a := range all[:toEvict] {
		delete(c.entries, a.key)
	}
}
