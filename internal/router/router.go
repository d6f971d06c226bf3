// Package router sets up all HTTP routes and middleware chains for the
// Social Scribe API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"socialscribe/internal/handlers"
	"socialscribe/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string

	// Limiter rate-limits generation routes. Nil disables limiting.
	Limiter middleware.Limiter

	// RateWindow is advertised in Retry-After when a client is limited.
	RateWindow time.Duration
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	// Health check, never rate-limited.
	r.Get("/health", healthHandler)

	// Generation calls the paid upstream API, so it is rate-limited per client.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.Limiter, opts.RateWindow))
		r.Post("/generate", api.Generate)
		r.Post("/generate/batch", api.GenerateBatch)
	})

	r.Get("/templates", api.Templates)
	r.Get("/history", api.History)
	r.Get("/history/{id}", api.HistoryEntry)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found"}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"Method Not Allowed"}`))
}
