// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const promptHashLength = 12

// PromptHash returns a short stable fingerprint of a user prompt. Two log
// lines about the same request share the hash without exposing its text.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(prompt)))
	return hex.EncodeToString(sum[:])[:promptHashLength]
}

// SanitizeSessionID keeps the first 8 characters of a session ID.
func SanitizeSessionID(id string) string {
	if id == "" {
		return ""
	}
	return truncate(id, 8) + "..."
}

// SanitizeAPIKey reveals only the last 4 characters of a credential.
func SanitizeAPIKey(key string) string {
	if key == "" {
		return "[NOT_SET]"
	}
	if len(key) <= 8 {
		return "[REDACTED]"
	}
	return "..." + key[len(key)-4:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
