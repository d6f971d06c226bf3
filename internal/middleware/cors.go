// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the browser frontend, usually served from another origin,
// call the API. An origin list containing "*" allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, GenerationErrorHeader},
		MaxAge:         300,
	})
}

// GenerationErrorHeader names the failure kind on a generation response
// whose text is an error message.
const GenerationErrorHeader = "X-Generation-Error"
