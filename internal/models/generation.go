// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation is one recorded call to the language model: the prompt that
// was sent and the text (or error message) that was returned.
type Generation struct {
	ID         uuid.UUID `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Platform   string    `json:"platform"`
	Template   string    `json:"template"`
	Prompt     string    `json:"prompt"`
	Result     string    `json:"result"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	DurationMS int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Failed reports whether the generation returned an error message.
func (g *Generation) Failed() bool {
	return g.ErrorKind != ""
}
