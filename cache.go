package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog"
)

const recordsCachePrefix = "findash/records/"

func newRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
	}
}

// cachedSource keeps the records of another source in redis for ttl. A redis
// failure is logged and the wrapped source is used as if there were no cache.
// resource names what the source reads (path, database/collection) so
// repointing a source never serves the previous dataset.
type cachedSource struct {
	src      RecordSource
	resource string
	pool     *redis.Pool
	ttl      time.Duration
}

func newCachedSource(src RecordSource, resource string, pool *redis.Pool, ttl time.Duration) *cachedSource {
	if ttl < time.Second {
		ttl = time.Second
	}
	return &cachedSource{src: src, resource: resource, pool: pool, ttl: ttl}
}

func (c *cachedSource) Name() string {
	return c.src.Name()
}

func (c *cachedSource) key() string {
	return recordsCachePrefix + c.src.Name() + "/" + c.resource
}

func (c *cachedSource) Load(ctx context.Context) ([]FinancialRecord, error) {
	sublog := zerolog.Ctx(ctx).With().Str("redis_key", c.key()).Logger()

	redisConn, err := c.pool.GetContext(ctx)
	if err != nil {
		sublog.Warn().Err(err).Msg("redis unavailable, reading source directly")
		return c.src.Load(ctx)
	}
	defer redisConn.Close()

	cached, err := redis.Bytes(redisConn.Do("GET", c.key()))
	if err == nil {
		var records []FinancialRecord
		if err := json.Unmarshal(cached, &records); err == nil && len(records) > 0 {
			sublog.Info().Int("records", len(records)).Msg("redis cache hit")
			return records, nil
		}
		sublog.Warn().Msg("discarding unreadable cache entry")
	} else if err != redis.ErrNil {
		sublog.Warn().Err(err).Msg("failed to read from redis")
	}

	records, err := c.src.Load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(records)
	if err != nil {
		sublog.Error().Err(err).Msg("failed to encode records for redis")
		return records, nil
	}
	if _, err := redisConn.Do("SET", c.key(), payload, "EX", int(c.ttl.Seconds())); err != nil {
		sublog.Error().Err(err).Msg("failed to save to redis")
	}
	return records, nil
}
