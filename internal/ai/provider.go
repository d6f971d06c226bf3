// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai talks to the generative-language API. A Provider performs a
// single best-effort call; the Gateway folds provider errors into the
// fixed client-facing messages.
package ai

import (
	"context"
	"log/slog"
	"time"
)

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier (e.g., "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Result is the outcome of one generation: either Text or Err is meaningful.
type Result struct {
	Text string
	Err  error
}

// OK reports whether generation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Message returns the generated text, or the client-facing error message
// when generation failed.
func (r Result) Message() string {
	if r.Err != nil {
		return Sentinel(r.Err)
	}
	return r.Text
}

// Kind returns the error kind, or "" on success.
func (r Result) Kind() string { return Kind(r.Err) }

// Gateway issues one generation per call and never returns an error to
// the caller; failures are logged and carried in the Result.
type Gateway struct {
	provider Provider
}

// NewGateway wraps p.
func NewGateway(p Provider) *Gateway {
	return &Gateway{provider: p}
}

// ProviderName returns the name of the wrapped provider.
func (g *Gateway) ProviderName() string { return g.provider.Name() }

// Generate calls the provider once. No retries.
func (g *Gateway) Generate(ctx context.Context, prompt string) Result {
	start := time.Now()

	text, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		slog.Error("generation failed",
			"provider", g.provider.Name(),
			"kind", Kind(err),
			"duration", time.Since(start).String(),
			"error", err,
		)
		return Result{Err: err}
	}

	slog.Debug("generation succeeded",
		"provider", g.provider.Name(),
		"duration", time.Since(start).String(),
		"chars", len(text),
	)
	return Result{Text: text}
}
