// Package cache is an in-process TTL map shared by the geocoder and the
// single-node token denylist.
package cache

import (
	"sync"
	"time"
)

// DefaultMaxEntries bounds a cache built without an explicit limit.
const DefaultMaxEntries = 10000

type entry[V any] struct {
	val V
	exp time.Time
}

// Cache maps keys to values of type V until their TTL passes. Expired entries
// are dropped on read, and in bulk whenever the cache reaches its size limit.
type Cache[V any] struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	m          map[string]entry[V]
}

type Option func(*options)

type options struct {
	maxEntries int
	now        func() time.Time
}

// WithMaxEntries caps the number of live entries.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithClock replaces time.Now; tests use it to expire entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{maxEntries: DefaultMaxEntries, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Cache[V]{
		ttl:        ttl,
		maxEntries: o.maxEntries,
		now:        o.now,
		m:          make(map[string]entry[V]),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if !c.now().Before(e.exp) {
		c.mu.Lock()
		if cur, ok := c.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return e.val, true
}

// Set stores val with the cache's default TTL.
func (c *Cache[V]) Set(key string, val V) {
	c.SetWithTTL(key, val, c.ttl)
}

// SetWithTTL stores val until ttl passes. A non-positive ttl removes key.
func (c *Cache[V]) SetWithTTL(key string, val V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.m, key)
		return
	}

	if _, exists := c.m[key]; !exists && c.maxEntries > 0 && len(c.m) >= c.maxEntries {
		c.makeRoomLocked()
	}
	c.m[key] = entry[V]{val: val, exp: c.now().Add(ttl)}
}

// makeRoomLocked drops expired entries, then the entry closest to expiry if
// the cache is still full.
func (c *Cache[V]) makeRoomLocked() {
	now := c.now()
	for k, e := range c.m {
		if !now.Before(e.exp) {
			delete(c.m, k)
		}
	}
	if len(c.m) < c.maxEntries {
		return
	}

	var victim string
	var soonest time.Time
	for k, e := range c.m {
		if victim == "" || e.exp.Before(soonest) {
			victim, soonest = k, e.exp
		}
	}
	delete(c.m, victim)
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet dropped.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
