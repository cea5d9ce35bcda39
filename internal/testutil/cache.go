package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/loja/internal/cache"
)

// Cache is an in-process stand-in for the redis client with expiry.
type Cache struct {
	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	value   string
	expires time.Time
}

func NewCache() *Cache {
	return &Cache{items: map[string]cacheItem{}, now: time.Now}
}

func (m *Cache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	if !it.expires.IsZero() && m.now().After(it.expires) {
		delete(m.items, key)
		return "", cache.ErrCacheMiss
	}
	return it.value, nil
}

func (m *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	it := cacheItem{value: s}
	if expiration > 0 {
		it.expires = m.now().Add(expiration)
	}

	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()
	return nil
}

func (m *Cache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}
