// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access for generation history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"socialscribe/internal/models"
)

// GenerationStore records generations for audit and debugging.
type GenerationStore struct {
	db *sql.DB
}

// NewGenerationStore creates a new GenerationStore.
func NewGenerationStore(db *sql.DB) *GenerationStore {
	return &GenerationStore{db: db}
}

// Log records a generation. It is best-effort: failures are logged and
// never reach the caller. A zero ID is replaced with a new UUID.
func (s *GenerationStore) Log(ctx context.Context, g *models.Generation) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (id, request_id, platform, template, prompt, result, error_kind, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, g.ID, g.RequestID, g.Platform, g.Template, g.Prompt, g.Result, g.ErrorKind, g.DurationMS)
	if err != nil {
		slog.Warn("failed to log generation",
			"id", g.ID,
			"request_id", g.RequestID,
			"error", err,
		)
		return
	}
	slog.Debug("generation logged", "id", g.ID, "failed", g.Failed(), "error_kind", g.ErrorKind)
}

// Recent returns the most recent generations, newest first.
func (s *GenerationStore) Recent(ctx context.Context, limit int) ([]models.Generation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, platform, template, prompt, result, error_kind, duration_ms, created_at
		FROM generations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	entries := []models.Generation{}
	for rows.Next() {
		var g models.Generation
		if err := rows.Scan(&g.ID, &g.RequestID, &g.Platform, &g.Template, &g.Prompt,
			&g.Result, &g.ErrorKind, &g.DurationMS, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		entries = append(entries, g)
	}
	return entries, rows.Err()
}

// FindByID returns a single generation, or nil if it does not exist.
func (s *GenerationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Generation, error) {
	var g models.Generation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, request_id, platform, template, prompt, result, error_kind, duration_ms, created_at
		FROM generations
		WHERE id = $1
	`, id).Scan(&g.ID, &g.RequestID, &g.Platform, &g.Template, &g.Prompt,
		&g.Result, &g.ErrorKind, &g.DurationMS, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find generation: %w", err)
	}
	return &g, nil
}
