// Package cachetest provides an in-memory cache.Cache for tests.
package cachetest

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"short-link/internal/cache"
)

type item struct {
	value     string
	expiresAt time.Time
}

// Cache is a map-backed cache.Cache. Setting Err makes every call fail with it.
type Cache struct {
	mu    sync.Mutex
	items map[string]item
	Err   error
	Now   func() time.Time
}

var _ cache.Cache = (*Cache)(nil)

func New() *Cache {
	return &Cache{items: make(map[string]item), Now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	it, ok := c.items[key]
	if !ok {
		return "", cache.ErrMiss
	}
	if !it.expiresAt.IsZero() && c.Now().After(it.expiresAt) {
		delete(c.items, key)
		return "", cache.ErrMiss
	}
	return it.value, nil
}

func (c *Cache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	it := item{value: value}
	if expiration > 0 {
		it.expiresAt = c.Now().Add(expiration)
	}
	c.items[key] = it
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	delete(c.items, key)
	return nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), expiration)
}

func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (c *Cache) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Err
}

func (c *Cache) Close() error { return nil }

// Has reports whether key is currently stored.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}
