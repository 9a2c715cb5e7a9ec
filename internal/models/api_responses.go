// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package models

import "time"

// APIResponse is the envelope returned by every JSON endpoint.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// GeneratePlaylistRequest is the body of POST /api/v1/playlists/generate.
type GeneratePlaylistRequest struct {
	Prompt     string `json:"prompt" validate:"required,notblank,max=1000"`
	SessionID  string `json:"session_id,omitempty" validate:"omitempty,max=128,sessionid"`
	TargetSize int    `json:"target_size,omitempty" validate:"min=0,max=100"`
}

// PlaylistResponse is the data payload of a successful generation.
type PlaylistResponse struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Strategy     string           `json:"strategy"`
	Degraded     bool             `json:"degraded"`
	Requested    int              `json:"requested"`
	TrackCount   int              `json:"track_count"`
	DurationSecs int              `json:"duration_seconds"`
	Tracks       []CandidateTrack `json:"tracks"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status     string `json:"status"`
	Version    string `json:"version,omitempty"`
	Database   string `json:"database,omitempty"`
	TrackCount int64  `json:"track_count"`
	LLM        string `json:"llm,omitempty"`
	Uptime     string `json:"uptime,omitempty"`
}
