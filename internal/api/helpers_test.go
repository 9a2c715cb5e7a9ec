// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/playlist"
	ws "github.com/tomtom215/cadence/internal/websocket"
)

// fakeGenerator returns a canned draft or error and records requests.
type fakeGenerator struct {
	mu    sync.Mutex
	draft *playlist.PlaylistDraft
	err   error
	block bool // wait for ctx and return its error
	calls []playlist.Request
}

func (g *fakeGenerator) GeneratePlaylist(ctx context.Context, req playlist.Request) (*playlist.PlaylistDraft, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.draft, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeCatalog struct {
	pingErr  error
	count    int64
	countErr error
}

func (c *fakeCatalog) Ping(context.Context) error { return c.pingErr }
func (c *fakeCatalog) CountTracks(context.Context) (int64, error) {
	return c.count, c.countErr
}

func sampleDraft() *playlist.PlaylistDraft {
	return &playlist.PlaylistDraft{
		Tracks: []models.CandidateTrack{
			{ID: "t1", Title: "So What", ArtistNames: []string{"Miles Davis"}, DurationSeconds: 562},
			{ID: "t2", Title: "Naima", ArtistNames: []string{"John Coltrane"}, DurationSeconds: 261},
		},
		Title:        "Late Night Jazz",
		Description:  "Smoky standards for after hours.",
		StrategyUsed: playlist.StrategyGenre,
		Requested:    2,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			RateLimitReqs:   1000,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"https://app.example"},
		},
		LLM: config.LLMConfig{Provider: config.ProviderGemini},
	}
}

// newTestRouter builds the full route tree over fakes.
func newTestRouter(gen PlaylistGenerator, cat CatalogHealth, hub *ws.Hub, cfg *config.Config) http.Handler {
	mwCfg := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwCfg = ChiMiddlewareConfigFromSecurity(cfg.Security)
	}
	return NewRouter(NewHandler(gen, cat, hub, cfg), NewChiMiddleware(mwCfg)).SetupChi()
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// envelope mirrors models.APIResponse with a typed data field.
type envelope[T any] struct {
	Status   string           `json:"status"`
	Data     T                `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

var errBoom = errors.New("boom")
