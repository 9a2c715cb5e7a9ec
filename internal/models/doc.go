// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package models holds the data types shared between the catalog, the
// generation pipeline and the HTTP API.
//
// CandidateTrack is the read-only projection of a catalog row. The API
// envelope types (APIResponse, Metadata, APIError) give every endpoint the
// same JSON shape:
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-01-02T15:04:05Z", "query_time_ms": 840}
//	}
package models
