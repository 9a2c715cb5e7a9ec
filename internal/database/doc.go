// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package database is the catalog access layer: the track, artist and genre
// store queried by the playlist pipeline.
//
// # Overview
//
// The pipeline only reads from the catalog. Five lookups serve the retrieval
// strategies:
//
//   - RandomTracks: uniform sample of the whole catalog
//   - SearchText: OR-combined substring match on title, artist and genre
//   - TracksByGenres / TracksByArtists: case-normalized exact membership
//   - TracksByAudio: conjunctive energy/danceability/valence ranges
//
// Every lookup takes a context and a limit and returns zero or more rows
// without error when nothing matches. Only connection-level faults are
// returned as errors.
//
// Writes exist for seeding (InsertTracks, SeedDemoCatalog) and for the
// background genre enrichment worker (TracksMissingGenres, SetTrackGenres).
//
// # Drivers
//
// DuckDB (github.com/duckdb/duckdb-go/v2) is the default embedded store.
// PostgreSQL is reached through pgx's database/sql driver
// (github.com/jackc/pgx/v5/stdlib). Queries use numbered $n placeholders,
// which both engines accept.
//
// # Schema
//
//	tracks        (id, title, energy, danceability, valence, duration_seconds,
//	               explicit, popularity, preview_url)
//	track_artists (track_id, credit_order, name)
//	track_genres  (track_id, name)
//
// # Thread Safety
//
// DB wraps a pooled *sql.DB and is safe for concurrent use. No results are
// cached between calls.
package database
