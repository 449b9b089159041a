package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	appOrder "github.com/tailor/backend/internal/application/order"
	"go.uber.org/zap"
)

const summaryKey = "orders:status_summary"

// RedisSummaryCache shares the order status summary across instances
// through Redis. Redis errors degrade to cache misses.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisOptions holds the Redis connection settings
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisSummaryCache connects to Redis and verifies the connection
func NewRedisSummaryCache(opts RedisOptions, ttl time.Duration, logger *zap.Logger) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &RedisSummaryCache{client: client, ttl: ttl, logger: logger}, nil
}

// NewRedisSummaryCacheWithClient wraps an existing client, useful when
// sharing one client across components.
func NewRedisSummaryCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &RedisSummaryCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisSummaryCache) Get(ctx context.Context) (map[string]int64, bool) {
	data, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("summary cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var summary map[string]int64
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warn("summary cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return summary, true
}

func (c *RedisSummaryCache) Set(ctx context.Context, summary map[string]int64) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache write failed", zap.Error(err))
	}
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		c.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis connection
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

var _ appOrder.SummaryCache = (*RedisSummaryCache)(nil)
