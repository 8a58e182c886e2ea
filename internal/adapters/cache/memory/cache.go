// Package memory is an in-process read cache for storefront pages.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type entry struct {
	v       any
	expires time.Time
}

// DefaultMaxEntries caps a cache built by New.
const DefaultMaxEntries = 2048

// Cache is a bounded TTL map whose entries can be dropped by key prefix.
// Expired entries are swept by Set at most once per ttl.
type Cache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	max       int
	data      map[string]entry
	nextSweep time.Time
	now       func() time.Time
}

// New returns a cache holding at most DefaultMaxEntries; ttl <= 0 disables storing.
func New(ttl time.Duration) *Cache {
	return NewWithLimit(ttl, DefaultMaxEntries)
}

func NewWithLimit(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{ttl: ttl, max: maxEntries, data: map[string]entry{}, now: time.Now}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.v, true
}

func (c *Cache) Set(key string, v any) {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.Before(c.nextSweep) {
		c.sweep(now)
		c.nextSweep = now.Add(c.ttl)
	}
	if _, ok := c.data[key]; !ok && len(c.data) >= c.max {
		c.sweep(now)
		if len(c.data) >= c.max {
			c.evictOldest()
		}
	}
	c.data[key] = entry{v: v, expires: now.Add(c.ttl)}
}

// sweep drops expired entries. Caller holds the write lock.
func (c *Cache) sweep(now time.Time) {
	for k, e := range c.data {
		if now.After(e.expires) {
			delete(c.data, k)
		}
	}
}

func (c *Cache) evictOldest() {
	var (
		oldest string
		at     time.Time
	)
	for k, e := range c.data {
		if oldest == "" || e.expires.Before(at) {
			oldest, at = k, e.expires
		}
	}
	delete(c.data, oldest)
}

func (c *Cache) Revalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				delete(c.data, k)
				n++
				break
			}
		}
	}
	log.Debug().Strs("prefixes", prefixes).Int("dropped", n).Msg("cache revalidated")
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
