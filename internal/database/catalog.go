// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/models"
)

const trackColumns = `t.id, t.title, t.energy, t.danceability, t.valence,
	t.duration_seconds, t.explicit, t.popularity, t.preview_url`

// Deterministic order for non-random lookups.
const rankedOrder = ` ORDER BY t.popularity DESC, t.id`

// RandomTracks returns a uniform random sample of up to limit tracks.
func (db *DB) RandomTracks(ctx context.Context, limit int) ([]models.CandidateTrack, error) {
	var q queryArgs
	query := `SELECT ` + trackColumns + ` FROM tracks t ORDER BY random() LIMIT ` + q.add(limit)
	return db.queryTracks(ctx, "random", limit, query, q.args)
}

// SearchText returns tracks whose title, artist or genre contains any of
// words, case-insensitively. No words means no matches.
func (db *DB) SearchText(ctx context.Context, words []string, limit int) ([]models.CandidateTrack, error) {
	words = normalizeNames(words)
	if len(words) == 0 {
		return nil, db.checkOpen()
	}

	var q queryArgs
	conditions := make([]string, 0, len(words))
	for _, w := range words {
		p := q.add(likePattern(w))
		conditions = append(conditions, fmt.Sprintf(`(lower(t.title) LIKE %[1]s ESCAPE '\'
			OR EXISTS (SELECT 1 FROM track_artists a WHERE a.track_id = t.id AND lower(a.name) LIKE %[1]s ESCAPE '\')
			OR EXISTS (SELECT 1 FROM track_genres g WHERE g.track_id = t.id AND lower(g.name) LIKE %[1]s ESCAPE '\'))`, p))
	}
	query := `SELECT ` + trackColumns + ` FROM tracks t WHERE ` +
		strings.Join(conditions, " OR ") + rankedOrder + ` LIMIT ` + q.add(limit)
	return db.queryTracks(ctx, "search_text", limit, query, q.args)
}

// TracksByGenres returns tracks tagged with any of genres (case-normalized).
func (db *DB) TracksByGenres(ctx context.Context, genres []string, limit int) ([]models.CandidateTrack, error) {
	genres = normalizeNames(genres)
	if len(genres) == 0 {
		return nil, db.checkOpen()
	}
	var q queryArgs
	query := `SELECT ` + trackColumns + ` FROM tracks t
		WHERE EXISTS (SELECT 1 FROM track_genres g WHERE g.track_id = t.id AND lower(g.name) IN ` + q.in(genres) + `)` +
		rankedOrder + ` LIMIT ` + q.add(limit)
	return db.queryTracks(ctx, "by_genres", limit, query, q.args)
}

// TracksByArtists returns tracks credited to any of artists (case-normalized).
func (db *DB) TracksByArtists(ctx context.Context, artists []string, limit int) ([]models.CandidateTrack, error) {
	artists = normalizeNames(artists)
	if len(artists) == 0 {
		return nil, db.checkOpen()
	}
	var q queryArgs
	query := `SELECT ` + trackColumns + ` FROM tracks t
		WHERE EXISTS (SELECT 1 FROM track_artists a WHERE a.track_id = t.id AND lower(a.name) IN ` + q.in(artists) + `)` +
		rankedOrder + ` LIMIT ` + q.add(limit)
	return db.queryTracks(ctx, "by_artists", limit, query, q.args)
}

// TracksByAudio applies the audio filter conjunctively. Nil ranges and an
// empty genre list are unconstrained.
func (db *DB) TracksByAudio(ctx context.Context, f models.AudioFilter, limit int) ([]models.CandidateTrack, error) {
	var q queryArgs
	conditions := []string{"1=1"}
	addRange := func(column string, r *models.Range) {
		if r == nil {
			return
		}
		conditions = append(conditions, fmt.Sprintf("t.%s BETWEEN %s AND %s", column, q.add(r.Min), q.add(r.Max)))
	}
	addRange("energy", f.Energy)
	addRange("danceability", f.Danceability)
	addRange("valence", f.Valence)
	if genres := normalizeNames(f.Genres); len(genres) > 0 {
		conditions = append(conditions,
			`EXISTS (SELECT 1 FROM track_genres g WHERE g.track_id = t.id AND lower(g.name) IN `+q.in(genres)+`)`)
	}

	query := `SELECT ` + trackColumns + ` FROM tracks t WHERE ` +
		strings.Join(conditions, " AND ") + rankedOrder + ` LIMIT ` + q.add(limit)
	return db.queryTracks(ctx, "by_audio", limit, query, q.args)
}

// TracksMissingGenres returns up to limit tracks with no genre tags, for
// the enrichment worker. Tracks marked exhausted are skipped.
func (db *DB) TracksMissingGenres(ctx context.Context, limit int) ([]models.CandidateTrack, error) {
	var q queryArgs
	query := `SELECT ` + trackColumns + ` FROM tracks t
		WHERE NOT EXISTS (SELECT 1 FROM track_genres g WHERE g.track_id = t.id)
		AND NOT EXISTS (SELECT 1 FROM enrichment_exhausted x WHERE x.track_id = t.id)
		ORDER BY t.id LIMIT ` + q.add(limit)
	return db.queryTracks(ctx, "missing_genres", limit, query, q.args)
}

// CountTracks returns the number of tracks in the catalog.
func (db *DB) CountTracks(ctx context.Context) (int64, error) {
	if err := db.checkOpen(); err != nil {
		return 0, err
	}
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n)
	metrics.RecordCatalogQuery("count", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}

// queryTracks runs a track query, hydrates artists and genres, and records
// the query in metrics under name.
func (db *DB) queryTracks(ctx context.Context, name string, limit int, query string, args []interface{}) ([]models.CandidateTrack, error) {
	if err := db.checkOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	start := time.Now()
	tracks, err := db.selectTracks(ctx, query, args)
	if err == nil {
		err = db.hydrate(ctx, tracks)
	}
	metrics.RecordCatalogQuery(name, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("catalog %s query: %w", name, err)
	}
	return tracks, nil
}

func (db *DB) selectTracks(ctx context.Context, query string, args []interface{}) ([]models.CandidateTrack, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, "rows")

	var tracks []models.CandidateTrack
	for rows.Next() {
		var t models.CandidateTrack
		if err := rows.Scan(&t.ID, &t.Title, &t.Energy, &t.Danceability, &t.Valence,
			&t.DurationSeconds, &t.Explicit, &t.Popularity, &t.PreviewURL); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// hydrate fills ArtistNames (credit order) and GenreNames (alphabetical).
func (db *DB) hydrate(ctx context.Context, tracks []models.CandidateTrack) error {
	if len(tracks) == 0 {
		return nil
	}
	index := make(map[string]int, len(tracks))
	ids := make([]string, len(tracks))
	for i := range tracks {
		index[tracks[i].ID] = i
		ids[i] = tracks[i].ID
	}

	var qa queryArgs
	artistQuery := `SELECT track_id, name FROM track_artists WHERE track_id IN ` + qa.in(ids) + ` ORDER BY track_id, credit_order`
	if err := db.collectNames(ctx, artistQuery, qa.args, func(i int, name string) {
		tracks[i].ArtistNames = append(tracks[i].ArtistNames, name)
	}, index); err != nil {
		return fmt.Errorf("failed to load artists: %w", err)
	}

	var qg queryArgs
	genreQuery := `SELECT track_id, name FROM track_genres WHERE track_id IN ` + qg.in(ids) + ` ORDER BY track_id, name`
	if err := db.collectNames(ctx, genreQuery, qg.args, func(i int, name string) {
		tracks[i].GenreNames = append(tracks[i].GenreNames, name)
	}, index); err != nil {
		return fmt.Errorf("failed to load genres: %w", err)
	}
	return nil
}

func (db *DB) collectNames(ctx context.Context, query string, args []interface{}, add func(int, string), index map[string]int) error {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			add(i, name)
		}
	}
	return rows.Err()
}
