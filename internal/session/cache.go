package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"battery-arbitrage/internal/model"
)

// cachedResult holds the capacity-dependent part of an analysis. Yearly
// figures depend on the battery price and are always recomputed.
type cachedResult struct {
	Daily     []model.DailySummary
	Monthly   []model.MonthlySummary
	ExpiresAt time.Time
}

// ResultCache keeps daily and monthly results per (dataset, capacity).
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*cachedResult
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		store: make(map[string]*cachedResult),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached result if available and not expired.
func (c *ResultCache) Get(key string) ([]model.DailySummary, []model.MonthlySummary, bool) {
	if c == nil {
		return nil, nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.ExpiresAt) {
		return nil, nil, false
	}
	return entry.Daily, entry.Monthly, true
}

func (c *ResultCache) Set(key string, daily []model.DailySummary, monthly []model.MonthlySummary) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cachedResult{
		Daily:     daily,
		Monthly:   monthly,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Clear removes all entries. Called whenever a new dataset is published.
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cachedResult)
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Run evicts expired entries every interval until ctx is done.
func (c *ResultCache) Run(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ResultCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

func cacheKey(datasetID string, capacity int) string {
	return fmt.Sprintf("%s:%d", datasetID, capacity)
}
