package proxylist

import (
	"sync"
	"time"

	"github.com/raysh454/snapview/internal/model"
)

type cacheEntry struct {
	proxies   []model.ProxyEndpoint
	fetchedAt time.Time
}

// Cache is a small time-bounded cache of fetched proxy lists, keyed by
// protocol. Values are immutable once stored; a refresh overwrites the whole
// entry. Owned by the Selector, not a process-wide singleton.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[model.Protocol]cacheEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewCache creates a Cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[model.Protocol]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached list for proto when present and not expired.
func (c *Cache) Get(proto model.Protocol) ([]model.ProxyEndpoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[proto]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		delete(c.entries, proto)
		return nil, false
	}
	return e.proxies, true
}

// Put stores proxies for proto, stamped with the current time.
func (c *Cache) Put(proto model.Protocol, proxies []model.ProxyEndpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[proto] = cacheEntry{proxies: proxies, fetchedAt: c.now()}
}
