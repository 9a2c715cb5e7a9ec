// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"net/http"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/validation"
	ws "github.com/tomtom215/cadence/internal/websocket"
)

// WebSocket upgrades the connection and subscribes it to progress events
// for one session.
//
// @Summary Subscribe to generation progress
// @Description Upgrades to a WebSocket that receives {"type":"progress","data":{...}} messages for session_id.
// @Description Send {"type":"ping"} to receive a pong.
// @Tags Realtime
// @Param session_id query string true "Session id used in the generate request"
// @Success 101 "Switching protocols"
// @Failure 400 {object} models.APIResponse "Missing or invalid session_id"
// @Failure 503 {object} models.APIResponse "WebSocket service unavailable"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if !validation.ValidSessionID(sessionID) {
		respondError(w, http.StatusBadRequest, CodeValidation,
			"session_id is required and may only contain letters, digits, '-' and '_'", nil)
		return
	}

	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, sessionID)
	select {
	case h.wsHub.Register <- client:
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}
	client.Start()
}
