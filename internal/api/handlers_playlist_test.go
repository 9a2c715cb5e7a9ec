// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/playlist"
)

const generatePath = "/api/v1/playlists/generate"

func TestGeneratePlaylist_Success(t *testing.T) {
	gen := &fakeGenerator{draft: sampleDraft()}
	router := newTestRouter(gen, &fakeCatalog{}, nil, testConfig())

	rec := postJSON(t, router, generatePath, models.GeneratePlaylistRequest{
		Prompt:     "late night jazz",
		SessionID:  "sess-1",
		TargetSize: 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope[models.PlaylistResponse](t, rec)
	if env.Status != "success" || env.Error != nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	got := env.Data
	if got.Title != "Late Night Jazz" || got.Strategy != "genre" || got.Degraded {
		t.Errorf("unexpected playlist: %+v", got)
	}
	if got.TrackCount != 2 || len(got.Tracks) != 2 || got.Requested != 2 {
		t.Errorf("track_count = %d, tracks = %d, requested = %d", got.TrackCount, len(got.Tracks), got.Requested)
	}
	if got.DurationSecs != 823 {
		t.Errorf("duration_seconds = %d, want 823", got.DurationSecs)
	}

	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}

	if gen.callCount() != 1 {
		t.Fatalf("generator calls = %d", gen.callCount())
	}
	want := playlist.Request{Prompt: "late night jazz", SessionID: "sess-1", TargetSize: 2}
	if gen.calls[0] != want {
		t.Errorf("request = %+v, want %+v", gen.calls[0], want)
	}
}

func TestGeneratePlaylist_DegradedIsStillOK(t *testing.T) {
	draft := sampleDraft()
	draft.Degraded = true
	draft.StrategyUsed = playlist.StrategyRandom
	router := newTestRouter(&fakeGenerator{draft: draft}, &fakeCatalog{}, nil, testConfig())

	rec := postJSON(t, router, generatePath, map[string]string{"prompt": "anything"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope[models.PlaylistResponse](t, rec)
	if !env.Data.Degraded || env.Data.Strategy != "random" {
		t.Errorf("got %+v", env.Data)
	}
}

func TestGeneratePlaylist_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"missing prompt", map[string]interface{}{"target_size": 5}, CodeValidation},
		{"blank prompt", map[string]string{"prompt": "   "}, CodeValidation},
		{"prompt too long", map[string]string{"prompt": strings.Repeat("x", 1001)}, CodeValidation},
		{"bad session id", map[string]string{"prompt": "x", "session_id": "../etc"}, CodeValidation},
		{"target too large", map[string]interface{}{"prompt": "x", "target_size": 101}, CodeValidation},
		{"negative target", map[string]interface{}{"prompt": "x", "target_size": -1}, CodeValidation},
		{"malformed json", `{"prompt":`, CodeInvalidRequest},
		{"wrong type", `{"prompt": 12}`, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{draft: sampleDraft()}
			router := newTestRouter(gen, &fakeCatalog{}, nil, testConfig())

			rec := postJSON(t, router, generatePath, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			env := decodeEnvelope[interface{}](t, rec)
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", env.Error, tt.code)
			}
			if gen.callCount() != 0 {
				t.Error("generator must not run for invalid input")
			}
		})
	}
}

func TestGeneratePlaylist_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty catalog", &playlist.EmptyCatalogError{}, http.StatusServiceUnavailable, CodeNoTracks},
		{"wrapped empty catalog", fmt.Errorf("x: %w", &playlist.EmptyCatalogError{Err: errBoom}), http.StatusServiceUnavailable, CodeNoTracks},
		{"deadline", fmt.Errorf("playlist generation aborted during select: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeTimeout},
		{"canceled", context.Canceled, http.StatusRequestTimeout, CodeCanceled},
		{"other", errBoom, http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeGenerator{err: tt.err}, &fakeCatalog{}, nil, testConfig())
			rec := postJSON(t, router, generatePath, map[string]string{"prompt": "x"})
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			env := decodeEnvelope[interface{}](t, rec)
			if env.Status != "error" || env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("envelope = %+v", env)
			}
			if strings.Contains(env.Error.Message, "boom") {
				t.Errorf("internal error leaked to client: %q", env.Error.Message)
			}
		})
	}
}

func TestGeneratePlaylist_RequestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Timeout = 20 * time.Millisecond
	router := newTestRouter(&fakeGenerator{block: true}, &fakeCatalog{}, nil, cfg)

	start := time.Now()
	rec := postJSON(t, router, generatePath, map[string]string{"prompt": "x"})
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestGeneratePlaylist_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(&fakeGenerator{draft: sampleDraft()}, &fakeCatalog{}, nil, testConfig())
	rec := get(router, generatePath)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	env := decodeEnvelope[interface{}](t, rec)
	if env.Error == nil || env.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestStatusForError(t *testing.T) {
	status, code, _ := statusForError(&playlist.EmptyCatalogError{})
	if status != http.StatusServiceUnavailable || code != CodeNoTracks {
		t.Errorf("got %d %s", status, code)
	}
	status, code, _ = statusForError(errBoom)
	if status != http.StatusInternalServerError || code != CodeInternal {
		t.Errorf("got %d %s", status, code)
	}
}

func TestToPlaylistResponse_NilTracks(t *testing.T) {
	resp := toPlaylistResponse(&playlist.PlaylistDraft{StrategyUsed: playlist.StrategyArtist})
	if resp.Tracks == nil || resp.TrackCount != 0 || resp.Strategy != "artist" {
		t.Errorf("got %+v", resp)
	}
}
