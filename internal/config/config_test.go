// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "GEMINI_TIMEOUT",
	"CORS_ALLOWED_ORIGINS", "RATE_LIMIT", "RATE_WINDOW",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
}

// clearEnv sets every variable Load reads to "", which envOrDefault
// treats the same as unset. t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s: got %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "5000")
	check("Env", cfg.Env, "development")
	check("GeminiKey", cfg.GeminiKey, "")
	check("GeminiModel", cfg.GeminiModel, "gemini-2.5-flash-preview-05-20")
	check("GeminiBaseURL", cfg.GeminiBaseURL, "https://generativelanguage.googleapis.com")
	check("DBPort", cfg.DBPort, "5432")
	check("ValkeyPort", cfg.ValkeyPort, "6379")

	if cfg.GeminiTimeout != 60*time.Second {
		t.Errorf("GeminiTimeout: got %v, want 60s", cfg.GeminiTimeout)
	}
	if cfg.RateLimit != 30 || cfg.RateWindow != time.Minute {
		t.Errorf("rate limit: got %d per %v, want 30 per 1m", cfg.RateLimit, cfg.RateWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins: got %v, want [*]", cfg.CORSAllowedOrigins)
	}
	if cfg.HistoryEnabled() {
		t.Error("history should be disabled without POSTGRES_HOST")
	}
	if cfg.SharedRateLimit() {
		t.Error("shared rate limit should be disabled without VALKEY_HOST")
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("GEMINI_TIMEOUT", "15s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://scribe.example ,")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_WINDOW", "10s")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("VALKEY_HOST", "cache")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if cfg.GeminiKey != "secret" || cfg.GeminiTimeout != 15*time.Second {
		t.Errorf("gemini: got key=%q timeout=%v", cfg.GeminiKey, cfg.GeminiTimeout)
	}
	want := []string{"http://localhost:3000", "https://scribe.example"}
	if strings.Join(cfg.CORSAllowedOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("CORSAllowedOrigins: got %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	if cfg.RateLimit != 5 || cfg.RateWindow != 10*time.Second {
		t.Errorf("rate limit: got %d per %v", cfg.RateLimit, cfg.RateWindow)
	}
	if !cfg.HistoryEnabled() || !cfg.SharedRateLimit() {
		t.Error("history and shared rate limit should be enabled")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"GEMINI_TIMEOUT", "soon", "GEMINI_TIMEOUT"},
		{"GEMINI_TIMEOUT", "-1s", "positive"},
		{"RATE_WINDOW", "10", "RATE_WINDOW"},
		{"RATE_LIMIT", "many", "RATE_LIMIT"},
		{"RATE_LIMIT", "-3", "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ProductionRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY error, got %v", err)
	}

	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("POSTGRES_HOST", "db")
	_, err = Load()
	if err == nil || !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Fatalf("expected POSTGRES_PASSWORD error, got %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d"}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
