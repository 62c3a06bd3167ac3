package dataset

import (
	"context"
	"encoding/json"
	"time"

	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "dataset:films:"

// TableLoader produces a normalized table for a source URL.
type TableLoader interface {
	Load(ctx context.Context, sourceURL string) (*Table, error)
}

// CachedLoader decorates a TableLoader with a Redis cache keyed by source
// URL. Cache failures degrade to a direct load; they never fail the pipeline.
type CachedLoader struct {
	inner  TableLoader
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedLoader(inner TableLoader, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedLoader {
	return &CachedLoader{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "dataset-cache"}),
	}
}

func (c *CachedLoader) Load(ctx context.Context, sourceURL string) (*Table, error) {
	key := cacheKeyPrefix + sourceURL

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var table Table
		if err := json.Unmarshal([]byte(val), &table); err == nil && len(table.Films) > 0 {
			metrics.DatasetCacheHits.WithLabelValues("hit").Inc()
			return &table, nil
		}
	}
	metrics.DatasetCacheHits.WithLabelValues("miss").Inc()

	table, err := c.inner.Load(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(table); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Warn("cache write failed", map[string]interface{}{
				"source": sourceURL,
			})
		}
	}

	return table, nil
}
