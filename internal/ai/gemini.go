// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultGeminiBaseURL is the public Generative Language API host.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultGeminiModel is the model used when none is configured.
	DefaultGeminiModel = "gemini-2.5-flash-preview-05-20"

	// DefaultTimeout bounds a single generateContent call.
	DefaultTimeout = 60 * time.Second

	// maxErrorBody caps how much of an upstream error body ends up in logs.
	maxErrorBody = 512
)

// GeminiProvider implements the Provider interface using the Google
// Gemini REST API (POST /v1beta/models/{model}:generateContent).
type GeminiProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewGemini creates a Gemini provider. Empty fields in cfg fall back to
// DefaultGeminiBaseURL, DefaultGeminiModel and DefaultTimeout.
func NewGemini(cfg ProviderConfig) *GeminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &GeminiProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Model returns the model requests are sent to.
func (p *GeminiProvider) Model() string { return p.config.Model }

// Generate sends prompt as the single content part of a one-turn
// generateContent request and returns the text of the first part of the
// first candidate. Failures wrap one of the package's sentinel errors.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.config.APIKey == "" {
		return "", ErrNoAPIKey
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("gemini marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: gemini request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gemini http: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: gemini read body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxErrorBody)}
	}

	return extractText(respBody)
}

// endpoint builds the generateContent URL. The API key travels as the
// "key" query parameter.
func (p *GeminiProvider) endpoint() string {
	q := url.Values{}
	q.Set("key", p.config.APIKey)
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		p.config.BaseURL, url.PathEscape(p.config.Model), q.Encode())
}

// extractText descends candidates[0].content.parts[0].text.
func extractText(body []byte) (string, error) {
	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return "", fmt.Errorf("%w: %w", ErrUnexpectedFormat, err)
		}
		return "", fmt.Errorf("%w: gemini unmarshal: %w", ErrTransport, err)
	}

	if len(result.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	content := result.Candidates[0].Content
	if content == nil {
		return "", fmt.Errorf("%w: candidate has no content", ErrUnexpectedFormat)
	}
	if len(content.Parts) == 0 {
		return "", fmt.Errorf("%w: content has no parts", ErrUnexpectedFormat)
	}
	if content.Parts[0].Text == nil {
		return "", fmt.Errorf("%w: first part has no text", ErrUnexpectedFormat)
	}

	return *content.Parts[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --- Gemini API types ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// Response types use pointers so a missing key can be told apart from an
// empty value.

type geminiResponsePart struct {
	Text *string `json:"text"`
}

type geminiResponseContent struct {
	Parts []geminiResponsePart `json:"parts"`
}

type geminiCandidate struct {
	Content *geminiResponseContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
