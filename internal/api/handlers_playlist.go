// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
	"github.com/tomtom215/cadence/internal/playlist"
)

// GeneratePlaylist turns a natural-language prompt into a playlist.
//
// @Summary Generate a playlist from a prompt
// @Description Classifies the prompt, retrieves candidate tracks from the catalog, selects an ordered subset and names the result.
// @Description When the text-generation service is unavailable the request still succeeds with degraded=true.
// @Description Progress events for session_id are pushed over /ws while the request runs.
// @Tags Playlists
// @Accept json
// @Produce json
// @Param request body models.GeneratePlaylistRequest true "Prompt and options"
// @Success 200 {object} models.APIResponse{data=models.PlaylistResponse} "Playlist generated"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 429 {object} models.APIResponse "Rate limited"
// @Failure 503 {object} models.APIResponse "Catalog has no tracks"
// @Failure 504 {object} models.APIResponse "Generation timed out"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /playlists/generate [post]
func (h *Handler) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.GeneratePlaylistRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	ctx := r.Context()
	if timeout := h.requestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx = logging.ContextWithSessionID(ctx, req.SessionID)

	draft, err := h.generator.GeneratePlaylist(ctx, playlist.Request{
		Prompt:     req.Prompt,
		SessionID:  req.SessionID,
		TargetSize: req.TargetSize,
	})
	if err != nil {
		status, code, message := statusForError(err)
		if status == http.StatusInternalServerError {
			respondError(w, status, code, message, err)
		} else {
			logging.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("Playlist generation failed")
			respondError(w, status, code, message, nil)
		}
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   toPlaylistResponse(draft),
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func toPlaylistResponse(d *playlist.PlaylistDraft) *models.PlaylistResponse {
	tracks := d.Tracks
	if tracks == nil {
		tracks = []models.CandidateTrack{}
	}
	return &models.PlaylistResponse{
		Title:        d.Title,
		Description:  d.Description,
		Strategy:     d.StrategyUsed.String(),
		Degraded:     d.Degraded,
		Requested:    d.Requested,
		TrackCount:   len(tracks),
		DurationSecs: d.DurationSeconds(),
		Tracks:       tracks,
	}
}
