// Package localecache memoizes locale normalization (script completion via
// likely subtags), which is the hot path of qualifier matching.
//
// Keys are the raw "lang-script-region" strings seen in qualifier records.
// The cache is split into 16 shards, each an LRU guarded by its own mutex.
package localecache

import (
	"container/list"
	"hash/fnv"
	"sync"
)

const defaultCapacity = 1024

// Must be a power of two.
const numShards = 16

// Entry is a normalized locale.
type Entry struct {
	Language string
	Script   string
	Region   string
}

type cacheEntry struct {
	key   string
	value Entry
}

type lruCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

func newCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lruCache) lookup(key string) (Entry, bool) {
	if c.capacity == 0 {
		return Entry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return Entry{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

func (c *lruCache) store(key string, v Entry) {
	if c.capacity == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = v
		return
	}
	if c.order.Len() >= c.capacity {
		if back := c.order.Back(); back != nil {
			evicted := c.order.Remove(back).(*cacheEntry)
			delete(c.items, evicted.key)
		}
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: v})
}

func (c *lruCache) setCapacity(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = n
	for c.order.Len() > n {
		back := c.order.Back()
		if back == nil {
			break
		}
		evicted := c.order.Remove(back).(*cacheEntry)
		delete(c.items, evicted.key)
	}
}

func (c *lruCache) reset() {
	c.mu.Lock()
	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.mu.Unlock()
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

type shardedCache struct {
	shards [numShards]*lruCache
}

func perShard(capacity int) int {
	n := capacity / numShards
	if n < 1 && capacity > 0 {
		n = 1
	}
	return n
}

func newShardedCache(capacity int) *shardedCache {
	sc := &shardedCache{}
	for i := range sc.shards {
		sc.shards[i] = newCache(perShard(capacity))
	}
	return sc
}

func shardFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck // fnv hash.Write never errors
	return int(h.Sum32() & (numShards - 1))
}

var global = newShardedCache(defaultCapacity)

// Lookup returns the cached normalization of key.
func Lookup(key string) (Entry, bool) {
	return global.shards[shardFor(key)].lookup(key)
}

// Store caches the normalization of key.
func Store(key string, v Entry) {
	global.shards[shardFor(key)].store(key, v)
}

// SetCapacity changes the total capacity. Pass 0 to disable caching.
func SetCapacity(n int) {
	for _, s := range global.shards {
		s.setCapacity(perShard(n))
	}
}

// Reset clears all entries without changing capacity.
func Reset() {
	for _, s := range global.shards {
		s.reset()
	}
}

// Len returns the number of cached entries.
func Len() int {
	total := 0
	for _, s := range global.shards {
		total += s.len()
	}
	return total
}
