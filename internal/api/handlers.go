// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/playlist"
	ws "github.com/tomtom215/cadence/internal/websocket"
)

// PlaylistGenerator runs the generation pipeline. *playlist.Generator
// implements it.
type PlaylistGenerator interface {
	GeneratePlaylist(ctx context.Context, req playlist.Request) (*playlist.PlaylistDraft, error)
}

// CatalogHealth is the catalog access the readiness probe needs.
// *database.DB implements it.
type CatalogHealth interface {
	Ping(ctx context.Context) error
	CountTracks(ctx context.Context) (int64, error)
}

// Handler serves every HTTP endpoint.
type Handler struct {
	generator PlaylistGenerator
	catalog   CatalogHealth
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the handler set. wsHub may be nil, in which case the
// websocket endpoint answers 503. cfg may be nil in tests.
//
// Example:
//
//	handler := api.NewHandler(generator, db, hub, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":3857", router.SetupChi())
func NewHandler(generator PlaylistGenerator, catalog CatalogHealth, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		generator: generator,
		catalog:   catalog,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// requestTimeout is the budget for one generation request; zero means the
// pipeline's own stage timeouts are the only bound.
func (h *Handler) requestTimeout() time.Duration {
	if h.config == nil {
		return 0
	}
	return h.config.Server.Timeout
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Browsers
// always send Origin, so a missing header is rejected. Same-host origins
// and configured CORS origins are accepted.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}

	if h.config == nil {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
