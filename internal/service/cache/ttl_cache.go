package cache

import (
	"sync"
	"time"
)

type respEntry struct {
	body []byte
	exp  time.Time
}

// TTLCache is an in-process BytesCache for rendered API responses. Entries
// live for seconds, so the map is bounded by sweeping expired entries on
// every write. Single-process only; production uses the Redis cache so
// replicas share responses.
type TTLCache struct {
	mu sync.Mutex
	m  map[string]respEntry
}

// NewTTLCache creates an empty response cache.
func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]respEntry)}
}

// GetBytes returns the cached response body for key, if still fresh.
func (c *TTLCache) GetBytes(key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(c.m, key)
		return nil, false, nil
	}
	return e.body, true, nil
}

// SetBytes stores a rendered response body under key for ttl.
func (c *TTLCache) SetBytes(key string, body []byte, ttl time.Duration) error {
	now := time.Now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
		}
	}
	c.m[key] = respEntry{body: body, exp: exp}
	return nil
}
