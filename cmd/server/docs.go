// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package main provides the Cadence HTTP server
//
// Cadence API generates playlists from free-text prompts against a local
// track catalog.
//
// @title Cadence API
// @version 1.0
// @description Prompt-driven playlist generation over a local music catalog
// @description
// @description ## Features
// @description
// @description - **Prompt classification**: text mood, genre, artist or audio-feature retrieval
// @description - **Model-ordered selection**: a language model picks and orders the final tracks
// @description - **Graceful degradation**: every stage has a deterministic fallback
// @description - **Live progress**: per-session WebSocket updates for each pipeline stage
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 30 requests per minute per IP address on /api/v1.
// @description Health probes are not rate limited.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-18T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cadence/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8420
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and readiness probes
//
// @tag.name Playlists
// @tag.description Playlist generation from free-text prompts
//
// @tag.name Realtime
// @tag.description Session-scoped WebSocket progress updates
package main
