// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cadence/internal/config"
)

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, &fakeCatalog{}, nil, testConfig())
	rec := get(router, "/api/v1/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope[interface{}](t, rec)
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, &fakeCatalog{}, nil, testConfig())
	// Touch an instrumented route so the HTTP series exist.
	postJSON(t, router, generatePath, `{}`)

	rec := get(router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cadence_") {
		t.Error("metrics output has no cadence series")
	}
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, &fakeCatalog{}, nil, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, &fakeCatalog{}, nil, testConfig())

	req := httptest.NewRequest(http.MethodOptions, generatePath, nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, generatePath, nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute
	router := newTestRouter(&fakeGenerator{draft: sampleDraft()}, &fakeCatalog{}, nil, cfg)

	for i := 0; i < 2; i++ {
		if rec := postJSON(t, router, generatePath, map[string]string{"prompt": "x"}); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := postJSON(t, router, generatePath, map[string]string{"prompt": "x"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	env := decodeEnvelope[interface{}](t, rec)
	if env.Error == nil || env.Error.Code != CodeRateLimited {
		t.Errorf("envelope = %+v", env)
	}

	// Health probes are exempt.
	if rec := get(router, "/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitReqs = 1
	cfg.Security.RateLimitDisabled = true
	router := newTestRouter(&fakeGenerator{draft: sampleDraft()}, &fakeCatalog{}, nil, cfg)

	for i := 0; i < 5; i++ {
		if rec := postJSON(t, router, generatePath, map[string]string{"prompt": "x"}); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	cfg := ChiMiddlewareConfigFromSecurity(config.SecurityConfig{
		CORSOrigins: []string{"https://a.example"},
	})
	if cfg.RateLimitRequests != 30 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("zero values should keep defaults: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("got %q", got)
	}
}
