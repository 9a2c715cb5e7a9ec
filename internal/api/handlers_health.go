// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// The service is ready when the catalog answers a ping and a count query.
// An empty catalog is still ready; generation then answers 503 per request.
//
// @Summary Readiness probe
// @Description Returns 200 OK when the catalog is reachable, with the current track count. Returns 503 otherwise.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse{data=models.HealthStatus} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:   "ready",
		Database: "connected",
		LLM:      h.llmProvider(),
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	ready := h.catalog != nil
	if ready {
		if err := h.catalog.Ping(r.Context()); err != nil {
			logging.Warn().Err(err).Msg("Readiness check: catalog ping failed")
			ready = false
		} else if count, err := h.catalog.CountTracks(r.Context()); err != nil {
			logging.Warn().Err(err).Msg("Readiness check: track count failed")
			ready = false
		} else {
			health.TrackCount = count
		}
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
		health.Status = "not_ready"
		health.Database = "unavailable"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status:   health.Status,
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

func (h *Handler) llmProvider() string {
	if h.config == nil || h.config.LLM.Provider == "" {
		return config.ProviderDisabled
	}
	return h.config.LLM.Provider
}
