package api

import (
	"container/list"
	"sync"
	"time"
)

// responseCache is a thread-safe LRU cache with per-item TTL for decoded API
// responses. Each client owns its own cache, so independent scouting sessions
// never share state.
type responseCache struct {
	mu      sync.RWMutex
	items   map[string]*list.Element
	lru     *list.List
	maxSize int
	ttl     time.Duration
}

type cacheItem struct {
	key       string
	value     any
	expiresAt time.Time
}

func newResponseCache(maxSize int, ttl time.Duration) *responseCache {
	return &responseCache{
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// get retrieves a value from the cache. Expired items report a miss but are
// only removed on the next set (get holds the read lock).
func (c *responseCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, exists := c.items[key]
	if !exists {
		return nil, false
	}
	item := elem.Value.(*cacheItem)
	if time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

// set stores a value in the cache.
func (c *responseCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.lru.MoveToFront(elem)
		item := elem.Value.(*cacheItem)
		item.value = value
		item.expiresAt = time.Now().Add(c.ttl)
		return
	}

	elem := c.lru.PushFront(&cacheItem{key: key, value: value, expiresAt: time.Now().Add(c.ttl)})
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		c.evictOldest()
	}
	if c.lru.Len()%100 == 0 {
		c.cleanExpired()
	}
}

// clear removes all items from the cache.
func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru = list.New()
}

func (c *responseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

func (c *responseCache) evictOldest() {
	if elem := c.lru.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *responseCache) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*cacheItem).key)
}

func (c *responseCache) cleanExpired() {
	now := time.Now()
	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*cacheItem).expiresAt) {
			c.removeElement(elem)
		}
		elem = prev
	}
}
