// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// ratelimit.go keeps per-client request counters in Valkey so every server
// instance enforces the same limit. Counters use fixed windows: one key per
// client per window, expiring with the window.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix is the Valkey key prefix for rate-limit counters.
const rateKeyPrefix = "ratelimit:"

// RateCounter is a fixed-window rate limiter backed by Valkey.
// It satisfies middleware.Limiter.
type RateCounter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateCounter allows limit requests per window for each key.
func NewRateCounter(client *redis.Client, limit int, window time.Duration) *RateCounter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateCounter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow increments the counter for key in the current window and reports
// whether the request is within the limit.
func (rc *RateCounter) Allow(ctx context.Context, key string) (bool, error) {
	k := rc.key(key)

	var incr *redis.IntCmd
	_, err := rc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, rc.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate counter incr: %w", err)
	}

	count := incr.Val()
	if count > int64(rc.limit) {
		slog.Debug("rate limit exceeded", "key", key, "count", count, "limit", rc.limit)
		return false, nil
	}
	return true, nil
}

// key returns the counter key for client in the current window.
func (rc *RateCounter) key(client string) string {
	slot := rc.now().UnixNano() / int64(rc.window)
	return fmt.Sprintf("%s%s:%d", rateKeyPrefix, client, slot)
}

// Reset removes all rate-limit counters by scanning for the prefix.
func (rc *RateCounter) Reset(ctx context.Context) error {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, rateKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("rate counter scan: %w", err)
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("rate counter delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("rate counters cleared", "deleted", deleted)
	}
	return nil
}
