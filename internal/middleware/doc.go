// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package middleware provides HTTP instrumentation shared by the API routes.
//
// PrometheusMetrics is chi-compatible and labels requests by route pattern
// so path parameters and query strings never create new series:
//
//	r.Route("/api/v1", func(r chi.Router) {
//	    r.Use(middleware.PrometheusMetrics)
//	    r.Post("/playlists/generate", handler.GeneratePlaylist)
//	})
//
// Request ids, CORS, rate limiting and security headers live in the api
// package next to the router that applies them.
package middleware
