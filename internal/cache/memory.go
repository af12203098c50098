package cache

import (
	"context"
	"sync"

	"user-api/internal/models"
)

// MemoryCache keeps the slot in process memory. Concurrent populations under
// the same generation resolve as last write wins.
type MemoryCache struct {
	mu    sync.RWMutex
	users []models.CachedUser
	set   bool
	gen   uint64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context) ([]models.CachedUser, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set {
		return nil, false, nil
	}
	out := make([]models.CachedUser, len(c.users))
	copy(out, c.users)
	return out, true, nil
}

func (c *MemoryCache) Generation(_ context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

func (c *MemoryCache) Set(_ context.Context, gen uint64, users []models.CachedUser) (bool, error) {
	stored := make([]models.CachedUser, len(users))
	copy(stored, users)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false, nil
	}
	c.users = stored
	c.set = true
	return true, nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = nil
	c.set = false
	c.gen++
	return nil
}
