package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruEntry struct {
	data      []byte
	expiresAt time.Time
}

// lruCache is the in-process fallback used when Redis is not configured
type lruCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, lruEntry]
	now   func() time.Time
}

// NewLRUService creates an in-memory cache holding at most size entries
func NewLRUService(size int) (Service, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &lruCache{cache: c, now: time.Now}, nil
}

func (c *lruCache) IsAvailable() bool { return true }

func (c *lruCache) Get(_ context.Context, key string, dest interface{}) error {
	entry, ok := c.cache.Get(key)
	if !ok {
		return ErrMiss
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return ErrMiss
	}
	return json.Unmarshal(entry.data, dest)
}

func (c *lruCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := lruEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.cache.Add(key, entry)
	return nil
}

func (c *lruCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.cache.Remove(k)
	}
	return nil
}

func (c *lruCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Remove(k)
		}
	}
	return nil
}
