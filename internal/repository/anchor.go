package repository

import (
	"context"
	"sync"
	"time"
)

// AnchorCache holds the latest timestamp in the measurements table. Report
// windows are measured back from it instead of from the wall clock so that
// historical datasets behave like live ones. The value is loaded lazily and
// only changes through Refresh or Clear.
type AnchorCache struct {
	mu     sync.RWMutex
	value  time.Time
	loaded bool
	load   func(ctx context.Context) (time.Time, error)
}

func NewAnchorCache(load func(ctx context.Context) (time.Time, error)) *AnchorCache {
	return &AnchorCache{load: load}
}

func (c *AnchorCache) Get(ctx context.Context) (time.Time, error) {
	c.mu.RLock()
	if c.loaded {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()
	return c.Refresh(ctx)
}

// Refresh reloads the anchor from storage. On failure the previous value is
// kept.
func (c *AnchorCache) Refresh(ctx context.Context) (time.Time, error) {
	v, err := c.load(ctx)
	if err != nil {
		return time.Time{}, err
	}
	c.mu.Lock()
	c.value, c.loaded = v, true
	c.mu.Unlock()
	return v, nil
}

func (c *AnchorCache) Clear() {
	c.mu.Lock()
	c.value, c.loaded = time.Time{}, false
	c.mu.Unlock()
}
