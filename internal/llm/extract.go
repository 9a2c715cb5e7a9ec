// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package llm

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// DecodeError describes why a reply could not be decoded. It wraps
// ErrInvalidJSON so callers can test with errors.Is.
type DecodeError struct {
	Reason  string
	Snippet string // first bytes of the reply for diagnostics
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: decode reply: %s: %v", e.Reason, e.Err)
	}
	return "llm: decode reply: " + e.Reason
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidJSON, e.Err}
	}
	return []error{ErrInvalidJSON}
}

const snippetLength = 120

// ExtractObject locates the JSON object inside a model reply: code-fence
// markers are stripped, then the text from the first '{' to the last '}'
// is returned. Brackets in surrounding prose are ignored.
func ExtractObject(reply string) (string, error) {
	s := stripFences(reply)
	if s == "" {
		return "", &DecodeError{Reason: "empty reply"}
	}
	if v, ok := span(s, '{', '}'); ok {
		return v, nil
	}
	return "", &DecodeError{Reason: "no JSON object found", Snippet: snippet(s)}
}

// ExtractJSON locates an object or an array inside a model reply.
//
// The delimiter pair that opens first is tried first. When its span is not
// valid JSON the other pair is tried, so "see [1]. {...}" still yields the
// object. If neither span is valid the first one found is returned and
// decoding reports the error.
func ExtractJSON(reply string) (string, error) {
	s := stripFences(reply)
	if s == "" {
		return "", &DecodeError{Reason: "empty reply"}
	}
	first, second := [2]byte{'{', '}'}, [2]byte{'[', ']'}
	if arr := strings.IndexByte(s, '['); arr >= 0 {
		if obj := strings.IndexByte(s, '{'); obj < 0 || arr < obj {
			first, second = second, first
		}
	}
	var fallback string
	for _, d := range [][2]byte{first, second} {
		v, ok := span(s, d[0], d[1])
		if !ok {
			continue
		}
		if json.Valid([]byte(v)) {
			return v, nil
		}
		if fallback == "" {
			fallback = v
		}
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", &DecodeError{Reason: "no JSON value found", Snippet: snippet(s)}
}

// DecodeJSON extracts the object from reply and decodes it into T.
func DecodeJSON[T any](reply string) (T, error) {
	var out T
	payload, err := ExtractObject(reply)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, &DecodeError{Reason: "malformed JSON", Snippet: snippet(payload), Err: err}
	}
	return out, nil
}

// DecodeStrict decodes a JSON value into v and rejects unknown fields.
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &DecodeError{Reason: "unexpected shape", Snippet: snippet(string(data)), Err: err}
	}
	return nil
}

const fence = "```"

// stripFences removes code-fence markers and the language tag after an
// opening marker. Text on the same line as a marker is kept.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, fence) {
		return s
	}
	var b strings.Builder
	opening := true
	for {
		i := strings.Index(s, fence)
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		b.WriteByte('\n')
		s = s[i+len(fence):]
		if opening {
			s = s[len(languageTag(s)):]
		}
		opening = !opening
	}
	return strings.TrimSpace(b.String())
}

// languageTag returns the info string directly after an opening fence.
func languageTag(s string) string {
	n := 0
	for n < len(s) {
		c := s[n]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '+' {
			n++
			continue
		}
		break
	}
	return s[:n]
}

func span(s string, open, closing byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func snippet(s string) string {
	if len(s) <= snippetLength {
		return s
	}
	return s[:snippetLength] + "..."
}
