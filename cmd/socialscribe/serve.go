package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"socialscribe/internal/ai"
	"socialscribe/internal/cache"
	"socialscribe/internal/config"
	"socialscribe/internal/database"
	"socialscribe/internal/handlers"
	"socialscribe/internal/middleware"
	"socialscribe/internal/router"
	"socialscribe/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	setupLogger(cfg)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"model", cfg.GeminiModel,
	)
	if cfg.GeminiKey == "" {
		slog.Warn("GEMINI_API_KEY not set; generation requests will return an error message")
	}

	// Generation history in PostgreSQL (optional).
	var history handlers.History
	if cfg.HistoryEnabled() {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		history = store.NewGenerationStore(db)
	} else {
		slog.Warn("postgres not configured; generation history disabled")
	}

	// Rate limiting: shared through Valkey when configured, in-process otherwise.
	var limiter middleware.Limiter
	switch {
	case cfg.RateLimit == 0:
		slog.Warn("rate limiting disabled")
	case cfg.SharedRateLimit():
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer valkeyClient.Close()
		limiter = cache.NewRateCounter(valkeyClient, cfg.RateLimit, cfg.RateWindow)
	default:
		rl := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		defer rl.Stop()
		limiter = rl
	}

	gemini := ai.NewGemini(ai.ProviderConfig{
		APIKey:  cfg.GeminiKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	})
	gateway := ai.NewGateway(gemini)
	slog.Info("generation gateway ready", "provider", gateway.ProviderName(), "model", gemini.Model())
	api := handlers.NewAPI(gateway, history)

	r := router.New(api, router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        limiter,
		RateWindow:     cfg.RateWindow,
	})

	// WriteTimeout must outlast the upstream call, and a batch may queue
	// several of them behind the concurrency limit.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2*cfg.GeminiTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
