package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/quantmind-br/listaudit/internal/domain"
)

// SimpleMockCache is an in-memory domain.Cache for tests
type SimpleMockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewSimpleMockCache creates an empty SimpleMockCache
func NewSimpleMockCache() *SimpleMockCache {
	return &SimpleMockCache{data: make(map[string][]byte)}
}

// Get retrieves a value from cache
func (c *SimpleMockCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

// Set stores a value, ignoring the TTL
func (c *SimpleMockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

// Has checks if a key exists in cache
func (c *SimpleMockCache) Has(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// Delete removes a key from cache
func (c *SimpleMockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Close is a no-op
func (c *SimpleMockCache) Close() error {
	return nil
}
