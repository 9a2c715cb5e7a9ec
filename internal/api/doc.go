// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package api provides the HTTP surface of Cadence.

Routes:

	POST /api/v1/playlists/generate   prompt in, playlist out
	GET  /api/v1/ws?session_id=...    progress events for one session
	GET  /api/v1/health/live          liveness probe
	GET  /api/v1/health/ready         catalog reachability and track count
	GET  /metrics                     Prometheus exposition
	GET  /swagger/*                   OpenAPI UI

Every JSON response uses the models.APIResponse envelope. Errors carry a
machine-readable code:

	400 VALIDATION_ERROR, INVALID_REQUEST
	429 RATE_LIMITED
	503 NO_TRACKS_AVAILABLE  the catalog produced no tracks at all
	504 TIMEOUT              the request budget ran out
	500 INTERNAL_ERROR

A degraded playlist is still a 200; the degraded flag in the payload tells
clients a fallback was used.

Middleware order is request id, real IP, panic recovery and CORS globally,
then per-IP rate limiting (go-chi/httprate), security headers and
Prometheus instrumentation on /api/v1.
*/
package api
