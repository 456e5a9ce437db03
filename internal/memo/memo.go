// Package memo provides an optional, argument-keyed memoization layer.
//
// Nothing in the dashboard depends on a cache hit for correctness: a cache
// created with a non-positive size stores nothing and every lookup misses.
package memo

import "sync"

// Observer is notified of every lookup with its outcome.
type Observer func(hit bool)

// Cache is a thread-safe LRU cache.
type Cache[K comparable, V any] struct {
	maxEntries int
	observe    Observer

	mu      sync.Mutex
	entries map[K]*entry[K, V]
	head    *entry[K, V] // most recently used
	tail    *entry[K, V] // least recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
	prev  *entry[K, V]
	next  *entry[K, V]
}

// New creates a cache holding at most maxEntries values. observe may be nil.
func New[K comparable, V any](maxEntries int, observe Observer) *Cache[K, V] {
	return &Cache[K, V]{
		maxEntries: maxEntries,
		observe:    observe,
		entries:    make(map[K]*entry[K, V]),
	}
}

// Get returns the cached value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var value V
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		c.moveToFront(e)
		value = e.value
	}
	c.mu.Unlock()

	if c.observe != nil {
		c.observe(ok)
	}
	return value, ok
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do returns the cached value for key or computes it with fn. Only successful
// results are cached so a failed computation is retried on the next call.
func (c *Cache[K, V]) Do(key K, fn func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}

// Func wraps a pure single-argument function so repeated calls with the same
// argument are served from c.
func Func[K comparable, V any](c *Cache[K, V], fn func(K) V) func(K) V {
	return func(key K) V {
		if v, ok := c.Get(key); ok {
			return v
		}
		v := fn(key)
		c.Put(key, v)
		return v
	}
}

func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *Cache[K, V]) addToFront(e *entry[K, V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[K, V]) remove(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *Cache[K, V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
