// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Options is the set of user-chosen parameters for one generated post.
// Every field is optional; the zero value builds a valid prompt. The JSON
// tags name the request keys; the HTTP layer matches them exactly.
type Options struct {
	Topic           string    `json:"topic"`
	Platform        string    `json:"platform"`
	Template        Template  `json:"template"`
	Tone            string    `json:"tone"`
	WordCount       WordCount `json:"wordCount"`
	IncludeHashtags bool      `json:"includeHashtags"`
	IncludeEmojis   bool      `json:"includeEmojis"`
}

// WordCount is an approximate post length. Clients send it either as a
// JSON number or as a string; it is kept as the text that will appear in
// the prompt. Empty means no length constraint.
type WordCount string

// WordCountOf returns the WordCount for n, or the empty WordCount when n is zero.
func WordCountOf(n int) WordCount {
	if n == 0 {
		return ""
	}
	return WordCount(strconv.Itoa(n))
}

// IsSet reports whether a length constraint should be rendered.
func (wc WordCount) IsSet() bool {
	return wc != ""
}

// MarshalJSON encodes numeric word counts as numbers and anything else as a string.
func (wc WordCount) MarshalJSON() ([]byte, error) {
	if wc == "" {
		return []byte("null"), nil
	}
	if c := wc[0]; (c == '-' || (c >= '0' && c <= '9')) && json.Valid([]byte(wc)) {
		return []byte(wc), nil
	}
	return json.Marshal(string(wc))
}

// UnmarshalJSON accepts a number, a string or null. A numeric zero is
// treated like an absent value. Numbers keep their literal spelling.
func (wc *WordCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*wc = ""
		return nil
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("wordCount: %w", err)
		}
		*wc = WordCount(s)
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("wordCount must be a number or string")
		}
		if f == 0 {
			*wc = ""
			return nil
		}
		*wc = WordCount(data)
		return nil
	default:
		return fmt.Errorf("wordCount must be a number or string")
	}
}
