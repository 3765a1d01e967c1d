package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"teamhub.app/server/common/metrics"
)

const redisBackend = "redis"

// Redis stores JSON values with SETEX semantics.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string, dst any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues(redisBackend, "miss").Inc()
			return false
		}
		slog.WarnContext(ctx, "cache get failed", "backend", redisBackend, "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues(redisBackend, "error").Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		slog.WarnContext(ctx, "cache decode failed", "backend", redisBackend, "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues(redisBackend, "error").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues(redisBackend, "hit").Inc()
	return true
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "backend", redisBackend, "key", key, "error", err)
		metrics.CacheWriteErrors.WithLabelValues(redisBackend).Inc()
		return
	}
	if err := r.client.SetEx(ctx, key, data, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "cache set failed", "backend", redisBackend, "key", key, "error", err)
		metrics.CacheWriteErrors.WithLabelValues(redisBackend).Inc()
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		slog.WarnContext(ctx, "cache delete failed", "backend", redisBackend, "key", key, "error", err)
		metrics.CacheWriteErrors.WithLabelValues(redisBackend).Inc()
	}
}
