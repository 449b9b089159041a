package cache

import (
	"context"
	"sync"
	"time"

	appOrder "github.com/tailor/backend/internal/application/order"
)

const defaultSummaryTTL = 30 * time.Second

// InMemorySummaryCache caches the order status summary in process
// memory. Suitable for single-instance deployments and tests.
type InMemorySummaryCache struct {
	mu        sync.RWMutex
	summary   map[string]int64
	expiresAt time.Time
	ttl       time.Duration
}

// NewInMemorySummaryCache creates a cache with the given TTL. A zero
// TTL falls back to the default.
func NewInMemorySummaryCache(ttl time.Duration) *InMemorySummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &InMemorySummaryCache{ttl: ttl}
}

func (c *InMemorySummaryCache) Get(ctx context.Context) (map[string]int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.summary == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	out := make(map[string]int64, len(c.summary))
	for k, v := range c.summary {
		out[k] = v
	}
	return out, true
}

func (c *InMemorySummaryCache) Set(ctx context.Context, summary map[string]int64) {
	cp := make(map[string]int64, len(summary))
	for k, v := range summary {
		cp[k] = v
	}
	c.mu.Lock()
	c.summary = cp
	c.expiresAt = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *InMemorySummaryCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.summary = nil
	c.mu.Unlock()
}

var _ appOrder.SummaryCache = (*InMemorySummaryCache)(nil)
