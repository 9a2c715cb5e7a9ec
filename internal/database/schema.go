// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// The DDL sticks to types both DuckDB and PostgreSQL accept.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS tracks (
		id               VARCHAR PRIMARY KEY,
		title            VARCHAR NOT NULL,
		energy           DOUBLE PRECISION NOT NULL DEFAULT 0,
		danceability     DOUBLE PRECISION NOT NULL DEFAULT 0,
		valence          DOUBLE PRECISION NOT NULL DEFAULT 0,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		explicit         BOOLEAN NOT NULL DEFAULT FALSE,
		popularity       INTEGER NOT NULL DEFAULT 0,
		preview_url      VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS track_artists (
		track_id VARCHAR NOT NULL,
		credit_order INTEGER NOT NULL,
		name     VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS track_genres (
		track_id VARCHAR NOT NULL,
		name     VARCHAR NOT NULL
	)`,
	// tracks the enrichment worker gave up on; excluded from later scans
	`CREATE TABLE IF NOT EXISTS enrichment_exhausted (
		track_id     VARCHAR PRIMARY KEY,
		attempts     INTEGER NOT NULL,
		exhausted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_track_artists_track ON track_artists(track_id)`,
	`CREATE INDEX IF NOT EXISTS idx_track_artists_name ON track_artists(name)`,
	`CREATE INDEX IF NOT EXISTS idx_track_genres_track ON track_genres(track_id)`,
	`CREATE INDEX IF NOT EXISTS idx_track_genres_name ON track_genres(name)`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_popularity ON tracks(popularity)`,
}

// createTables creates the catalog tables
func (db *DB) createTables(ctx context.Context) error {
	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// createIndexes creates lookup indexes for the strategy queries
func (db *DB) createIndexes(ctx context.Context) error {
	for _, q := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
