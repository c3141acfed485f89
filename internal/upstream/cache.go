package upstream

import (
	"container/list"
	"sync"
)

// lruCache is the bounded in-memory fetch cache: capacity-evicted LRU, no
// TTL. Correctness never depends on freshness within a process run; the
// same categories endpoint is just not re-downloaded twice for one logical
// operation. Safe for concurrent use; no operation blocks beyond the mutex.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recent; values are *lruEntry
	entries  map[string]*list.Element
}

type lruEntry struct {
	key  string
	body []byte
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		return nil
	}
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

func (c *lruCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).body, true
}

func (c *lruCache) Put(key string, body []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry).body = body
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, body: body})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*lruEntry).key)
	}
}

func (c *lruCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
