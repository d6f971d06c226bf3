package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"socialscribe/internal/prompt"
)

// Validation limits for generation options.
const (
	maxBodyBytes     = 64 << 10
	maxTopicLen      = 5_000
	maxPlatformLen   = 100
	maxToneLen       = 100
	maxWordCountLen  = 20
	maxBatchCount    = 5
	defaultBatchSize = 1
)

const msgNoData = "No data provided"

// requestError is a client error carrying the HTTP status to respond with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func errNoData() error {
	return &requestError{status: http.StatusBadRequest, msg: msgNoData}
}

func errInvalid(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: "Invalid request: " + fmt.Sprintf(format, args...)}
}

// writeRequestError responds to a readObject/decodeOptions failure.
func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, reqErr.status, reqErr.msg)
		return
	}
	writeError(w, http.StatusBadRequest, msgNoData)
}

// readObject reads the request body as a non-empty JSON object and returns
// its fields. An empty, non-JSON, null or {} body yields the "No data
// provided" error.
func readObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	if r.Body == nil {
		return nil, errNoData()
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, &requestError{status: http.StatusRequestEntityTooLarge, msg: "Request body too large"}
		}
		return nil, errNoData()
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errNoData()
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || len(obj) == 0 {
		return nil, errNoData()
	}
	return obj, nil
}

// decodeOptions converts the fields of a JSON object into prompt options,
// enforcing field types and length limits. Keys match exactly: "TOPIC" or
// "includehashtags" are unknown fields and ignored.
func decodeOptions(obj map[string]json.RawMessage) (prompt.Options, error) {
	var opts prompt.Options
	fields := []struct {
		key string
		dst any
	}{
		{"topic", &opts.Topic},
		{"platform", &opts.Platform},
		{"template", &opts.Template},
		{"tone", &opts.Tone},
		{"wordCount", &opts.WordCount},
		{"includeHashtags", &opts.IncludeHashtags},
		{"includeEmojis", &opts.IncludeEmojis},
	}
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return opts, errInvalid("%s must be a %s", f.key, jsonTypeName(typeErr.Type.Kind().String()))
			}
			return opts, errInvalid("%v", err)
		}
	}

	if msg := validateOptions(opts); msg != "" {
		return opts, errInvalid("%s", msg)
	}
	return opts, nil
}

// validateOptions checks option lengths and returns the first problem found.
func validateOptions(opts prompt.Options) string {
	if utf8.RuneCountInString(opts.Topic) > maxTopicLen {
		return "topic is too long (max 5,000 characters)"
	}
	if utf8.RuneCountInString(opts.Platform) > maxPlatformLen {
		return "platform is too long (max 100 characters)"
	}
	if utf8.RuneCountInString(opts.Tone) > maxToneLen {
		return "tone is too long (max 100 characters)"
	}
	if utf8.RuneCountInString(string(opts.WordCount)) > maxWordCountLen {
		return "wordCount is too long (max 20 characters)"
	}
	return ""
}

func jsonTypeName(kind string) string {
	if kind == "bool" {
		return "boolean"
	}
	return kind
}
