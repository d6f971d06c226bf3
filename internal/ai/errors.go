// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by providers. Match with errors.Is.
var (
	ErrNoAPIKey         = errors.New("gemini: api key not set")
	ErrTransport        = errors.New("gemini: transport failure")
	ErrUpstream         = errors.New("gemini: upstream error")
	ErrNoCandidates     = errors.New("gemini: no candidates returned")
	ErrUnexpectedFormat = errors.New("gemini: unexpected response format")
)

// UpstreamError reports a non-2xx response from the API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Messages returned to clients in place of generated text. They are part
// of the public response contract and must not change.
const (
	MsgConnectFailed    = "Error: Failed to connect to the Gemini API."
	MsgNoResponse       = "Error: Could not retrieve a response from the Gemini API."
	MsgUnexpectedFormat = "Error: Unexpected response format from the Gemini API."
	MsgNoAPIKey         = "Error: Gemini API key is not set."
)

// Error kinds exposed in the X-Generation-Error response header.
const (
	KindTransport        = "transport"
	KindUpstream         = "upstream"
	KindNoCandidates     = "no_candidates"
	KindUnexpectedFormat = "unexpected_format"
	KindNoAPIKey         = "no_api_key"
)

// Kind classifies err into one of the Kind* constants. Unknown errors,
// including context cancellation, count as transport failures.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoAPIKey):
		return KindNoAPIKey
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrNoCandidates):
		return KindNoCandidates
	case errors.Is(err, ErrUnexpectedFormat):
		return KindUnexpectedFormat
	default:
		return KindTransport
	}
}

// Sentinel maps err to the client-facing message for its kind.
func Sentinel(err error) string {
	switch Kind(err) {
	case KindNoAPIKey:
		return MsgNoAPIKey
	case KindNoCandidates:
		return MsgNoResponse
	case KindUnexpectedFormat:
		return MsgUnexpectedFormat
	default:
		return MsgConnectFailed
	}
}
