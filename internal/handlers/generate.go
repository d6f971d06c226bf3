// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API: post generation, batch
// generation, template listing and generation history.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"socialscribe/internal/ai"
	"socialscribe/internal/middleware"
	"socialscribe/internal/models"
	"socialscribe/internal/prompt"
)

// batchConcurrency bounds parallel upstream calls for one batch request.
const batchConcurrency = 3

// historyTimeout bounds the history insert that follows each generation.
const historyTimeout = 5 * time.Second

// History records and lists generations. Implemented by store.GenerationStore.
type History interface {
	Log(ctx context.Context, g *models.Generation)
	Recent(ctx context.Context, limit int) ([]models.Generation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Generation, error)
}

// API holds the dependencies of the generation endpoints.
type API struct {
	gateway *ai.Gateway
	history History // nil when history is disabled
}

// NewAPI creates the API handlers. history may be nil.
func NewAPI(gateway *ai.Gateway, history History) *API {
	return &API{gateway: gateway, history: history}
}

// generateResponse is the body of a successful POST /generate. Text holds
// either the generated post or an error message.
type generateResponse struct {
	Text string `json:"text"`
}

type batchResponse struct {
	Texts []string `json:"texts"`
}

// Generate handles POST /generate: options in, one post out.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	obj, err := readObject(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	opts, err := decodeOptions(obj)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	res := a.generate(r.Context(), opts)
	if !res.OK() {
		w.Header().Set(middleware.GenerationErrorHeader, res.Kind())
	}
	writeJSON(w, http.StatusOK, generateResponse{Text: res.Message()})
}

// GenerateBatch handles POST /generate/batch: {"options": {...}, "count": n}.
// The frontend offers several variants of the same post; each is an
// independent generation and results keep request order.
func (a *API) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	obj, err := readObject(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	rawOpts, ok := obj["options"]
	if !ok {
		writeError(w, http.StatusBadRequest, msgNoData)
		return
	}
	var optsObj map[string]json.RawMessage
	if err := json.Unmarshal(rawOpts, &optsObj); err != nil || len(optsObj) == 0 {
		writeError(w, http.StatusBadRequest, msgNoData)
		return
	}
	opts, err := decodeOptions(optsObj)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	count := defaultBatchSize
	if rawCount, ok := obj["count"]; ok && string(rawCount) != "null" {
		if err := json.Unmarshal(rawCount, &count); err != nil || count < 1 || count > maxBatchCount {
			writeError(w, http.StatusBadRequest, "Invalid request: count must be an integer between 1 and 5")
			return
		}
	}

	results := make([]ai.Result, count)
	// Workers never fail; a failed generation is carried in its Result.
	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i := range results {
		g.Go(func() error {
			results[i] = a.generate(r.Context(), opts)
			return nil
		})
	}
	_ = g.Wait()

	resp := batchResponse{Texts: make([]string, count)}
	for i, res := range results {
		resp.Texts[i] = res.Message()
		if !res.OK() && w.Header().Get(middleware.GenerationErrorHeader) == "" {
			w.Header().Set(middleware.GenerationErrorHeader, res.Kind())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Templates handles GET /templates.
func (a *API) Templates(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	for _, t := range prompt.Templates() {
		names = append(names, t.String())
	}
	writeJSON(w, http.StatusOK, map[string][]string{"templates": names})
}

// History handles GET /history?limit=n.
func (a *API) History(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeError(w, http.StatusNotFound, "History is not enabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "Invalid request: limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	entries, err := a.history.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("list generations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Generation{"generations": entries})
}

// HistoryEntry handles GET /history/{id}.
func (a *API) HistoryEntry(w http.ResponseWriter, r *http.Request) {
	if a.history == nil {
		writeError(w, http.StatusNotFound, "History is not enabled")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: id must be a UUID")
		return
	}

	entry, err := a.history.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find generation failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Generation not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// generate builds the prompt, calls the gateway once and records the
// outcome when history is enabled.
func (a *API) generate(ctx context.Context, opts prompt.Options) ai.Result {
	p := prompt.Build(opts)

	start := time.Now()
	res := a.gateway.Generate(ctx, p)
	elapsed := time.Since(start)

	if a.history != nil {
		logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
		defer cancel()
		a.history.Log(logCtx, &models.Generation{
			RequestID:  middleware.RequestIDFromCtx(ctx),
			Platform:   opts.Platform,
			Template:   opts.Template.String(),
			Prompt:     p,
			Result:     res.Message(),
			ErrorKind:  res.Kind(),
			DurationMS: int(elapsed.Milliseconds()),
		})
	}

	return res
}
