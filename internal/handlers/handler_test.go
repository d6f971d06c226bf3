// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"socialscribe/internal/ai"
	"socialscribe/internal/models"
)

// mockAIProvider implements ai.Provider for handler tests and records
// every prompt it receives.
type mockAIProvider struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (m *mockAIProvider) Name() string { return "mock" }

func (m *mockAIProvider) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func (m *mockAIProvider) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// memHistory is an in-memory History. It records the deadline of the
// last Log context.
type memHistory struct {
	mu          sync.Mutex
	entries     []models.Generation
	err         error
	logDeadline time.Time
	logHasDL    bool
}

func (h *memHistory) Log(ctx context.Context, g *models.Generation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	h.logDeadline, h.logHasDL = ctx.Deadline()
	h.entries = append(h.entries, *g)
}

func (h *memHistory) FindByID(_ context.Context, id uuid.UUID) (*models.Generation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	for i := range h.entries {
		if h.entries[i].ID == id {
			g := h.entries[i]
			return &g, nil
		}
	}
	return nil, nil
}

func (h *memHistory) Recent(_ context.Context, limit int) ([]models.Generation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	out := []models.Generation{}
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.entries[i])
	}
	return out, nil
}

func newTestAPI(p ai.Provider, h History) *API {
	return NewAPI(ai.NewGateway(p), h)
}

// fakeGemini starts a server that answers generateContent with status and body.
func fakeGemini(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func geminiAPI(baseURL string) *API {
	return newTestAPI(ai.NewGemini(ai.ProviderConfig{APIKey: "test-key", BaseURL: baseURL}), nil)
}

// post sends body to handler and returns the recorder.
func post(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return m
}

var errBoom = errors.New("boom")
