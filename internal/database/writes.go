// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/models"
)

// InsertTracks adds tracks with their artists and genres in one transaction.
// Tracks whose id already exists are skipped. Returns the number inserted.
func (db *DB) InsertTracks(ctx context.Context, tracks []models.CandidateTrack) (int, error) {
	if err := db.checkOpen(); err != nil {
		return 0, err
	}
	if len(tracks) == 0 {
		return 0, nil
	}

	start := time.Now()
	inserted, err := db.withTx(ctx, func(tx *sql.Tx) (int, error) {
		n := 0
		for i := range tracks {
			ok, err := insertTrack(ctx, tx, &tracks[i])
			if err != nil {
				return 0, err
			}
			if ok {
				n++
			}
		}
		return n, nil
	})
	metrics.RecordCatalogQuery("insert_tracks", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tracks: %w", err)
	}
	return inserted, nil
}

func insertTrack(ctx context.Context, tx *sql.Tx, t *models.CandidateTrack) (bool, error) {
	if strings.TrimSpace(t.ID) == "" {
		return false, errors.New("track id is required")
	}

	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM tracks WHERE id = $1`, t.ID).Scan(&exists)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO tracks
		(id, title, energy, danceability, valence, duration_seconds, explicit, popularity, preview_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Title, t.Energy, t.Danceability, t.Valence,
		t.DurationSeconds, t.Explicit, t.Popularity, t.PreviewURL); err != nil {
		return false, fmt.Errorf("insert track %s: %w", t.ID, err)
	}
	for pos, name := range t.ArtistNames {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO track_artists (track_id, credit_order, name) VALUES ($1, $2, $3)`,
			t.ID, pos, name); err != nil {
			return false, fmt.Errorf("insert artist for %s: %w", t.ID, err)
		}
	}
	if err := insertGenres(ctx, tx, t.ID, t.GenreNames); err != nil {
		return false, err
	}
	return true, nil
}

// SetTrackGenres replaces the genre tags of one track. Names are trimmed,
// lowercased and de-duplicated.
func (db *DB) SetTrackGenres(ctx context.Context, trackID string, genres []string) error {
	if err := db.checkOpen(); err != nil {
		return err
	}
	start := time.Now()
	_, err := db.withTx(ctx, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM track_genres WHERE track_id = $1`, trackID); err != nil {
			return 0, err
		}
		return 0, insertGenres(ctx, tx, trackID, genres)
	})
	metrics.RecordCatalogQuery("set_genres", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to set genres for %s: %w", trackID, err)
	}
	return nil
}

// MarkEnrichmentExhausted records that tagging trackID failed attempts
// times in a row, so TracksMissingGenres stops returning it.
func (db *DB) MarkEnrichmentExhausted(ctx context.Context, trackID string, attempts int) error {
	if err := db.checkOpen(); err != nil {
		return err
	}
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO enrichment_exhausted (track_id, attempts) VALUES ($1, $2)
		ON CONFLICT (track_id) DO UPDATE SET attempts = excluded.attempts`, trackID, attempts)
	metrics.RecordCatalogQuery("mark_exhausted", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to mark %s exhausted: %w", trackID, err)
	}
	return nil
}

func insertGenres(ctx context.Context, tx *sql.Tx, trackID string, genres []string) error {
	for _, g := range normalizeNames(genres) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO track_genres (track_id, name) VALUES ($1, $2)`, trackID, g); err != nil {
			return fmt.Errorf("insert genre for %s: %w", trackID, err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, committing on success.
func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) (int, error)) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	n, err := fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return 0, fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return n, nil
}
