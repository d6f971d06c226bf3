// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, rateKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	// Port 1 is reserved and nothing listens there.
	_, err := ConnectValkey("127.0.0.1", "1", "")
	if err == nil {
		t.Fatal("expected error for unreachable Valkey")
	}
	if !strings.Contains(err.Error(), "valkey ping") {
		t.Errorf("error should mention valkey ping: got %q", err.Error())
	}
}

func TestRateCounterKey(t *testing.T) {
	rc := NewRateCounter(nil, 5, time.Minute)
	rc.now = func() time.Time { return time.Unix(120, 0) }

	if got, want := rc.key("10.0.0.1"), "ratelimit:10.0.0.1:2"; got != want {
		t.Errorf("key: got %q, want %q", got, want)
	}

	rc.now = func() time.Time { return time.Unix(179, 0) }
	if got, want := rc.key("10.0.0.1"), "ratelimit:10.0.0.1:2"; got != want {
		t.Errorf("same window: got %q, want %q", got, want)
	}

	rc.now = func() time.Time { return time.Unix(180, 0) }
	if got, want := rc.key("10.0.0.1"), "ratelimit:10.0.0.1:3"; got != want {
		t.Errorf("next window: got %q, want %q", got, want)
	}
}

func TestRateCounterAllow(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewRateCounter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rc.Allow(ctx, "test-ip")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := rc.Allow(ctx, "test-ip")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Error("4th request should be rate-limited")
	}

	ok, _ = rc.Allow(ctx, "other-ip")
	if !ok {
		t.Error("different IP should be allowed")
	}

	ttl, err := client.TTL(ctx, rc.key("test-ip")).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("counter TTL: got %v, want (0, 1m]", ttl)
	}
}

func TestRateCounterWindowRollover(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewRateCounter(client, 1, time.Minute)
	ctx := context.Background()

	base := time.Now().Truncate(time.Minute)
	rc.now = func() time.Time { return base }

	if ok, _ := rc.Allow(ctx, "roll-ip"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := rc.Allow(ctx, "roll-ip"); ok {
		t.Fatal("second request in the same window should be limited")
	}

	rc.now = func() time.Time { return base.Add(time.Minute) }
	if ok, _ := rc.Allow(ctx, "roll-ip"); !ok {
		t.Error("first request in the next window should be allowed")
	}
}

func TestRateCounterReset(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewRateCounter(client, 1, time.Minute)
	ctx := context.Background()

	rc.Allow(ctx, "reset-ip")
	if ok, _ := rc.Allow(ctx, "reset-ip"); ok {
		t.Fatal("should be limited before reset")
	}

	if err := rc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if ok, _ := rc.Allow(ctx, "reset-ip"); !ok {
		t.Error("should be allowed after reset")
	}
}
