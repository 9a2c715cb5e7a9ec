// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/models"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO
// connections from many parallel tests can hang under CI resource pressure,
// so the slot is held for the whole test and released in t.Cleanup.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory catalog with a timeout guard.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := &config.DatabaseConfig{
		Driver:    DriverDuckDB,
		Path:      ":memory:",
		MaxMemory: "512MB",
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg)
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

// fixtureTracks is a small catalog covering every lookup.
func fixtureTracks() []models.CandidateTrack {
	return []models.CandidateTrack{
		{ID: "t1", Title: "Blue in Green", ArtistNames: []string{"Miles Davis", "Bill Evans"}, GenreNames: []string{"Jazz"},
			Energy: 0.2, Danceability: 0.3, Valence: 0.4, DurationSeconds: 337, Popularity: 90},
		{ID: "t2", Title: "So What", ArtistNames: []string{"Miles Davis"}, GenreNames: []string{"jazz", "modal"},
			Energy: 0.3, Danceability: 0.4, Valence: 0.5, DurationSeconds: 562, Popularity: 80},
		{ID: "t3", Title: "Around the World", ArtistNames: []string{"Daft Punk"}, GenreNames: []string{"House", "Electronic"},
			Energy: 0.8, Danceability: 0.9, Valence: 0.7, DurationSeconds: 429, Popularity: 85},
		{ID: "t4", Title: "Clair de Lune", ArtistNames: []string{"Isao Tomita"}, GenreNames: []string{"classical"},
			Energy: 0.1, Danceability: 0.1, Valence: 0.3, DurationSeconds: 300, Popularity: 70},
		{ID: "t5", Title: "100%_Pure", ArtistNames: []string{"Test_Artist"}, GenreNames: []string{"pop"},
			Energy: 0.6, Danceability: 0.6, Valence: 0.5, DurationSeconds: 200, Explicit: true, Popularity: 20,
			PreviewURL: "https://cdn.example.com/t5.mp3"},
		{ID: "t6", Title: "Untagged Song", ArtistNames: []string{"Nobody"},
			Energy: 0.5, Danceability: 0.5, Valence: 0.5, DurationSeconds: 180, Popularity: 10},
	}
}

func setupFixtureDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	n, err := db.InsertTracks(context.Background(), fixtureTracks())
	if err != nil {
		t.Fatalf("InsertTracks() error = %v", err)
	}
	if n != 6 {
		t.Fatalf("InsertTracks() inserted %d, want 6", n)
	}
	return db
}

func trackIDs(tracks []models.CandidateTrack) []string {
	ids := make([]string, len(tracks))
	for i := range tracks {
		ids[i] = tracks[i].ID
	}
	return ids
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "sqlite"})
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("New() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestPingAndDriver(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Driver() != DriverDuckDB {
		t.Errorf("Driver() = %q, want %q", db.Driver(), DriverDuckDB)
	}
	if db.Conn() == nil {
		t.Error("Conn() returned nil")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	db, err := New(&config.DatabaseConfig{Driver: DriverDuckDB, Path: ":memory:", MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	ctx := context.Background()
	if _, err := db.RandomTracks(ctx, 5); !errors.Is(err, ErrDatabaseClosed) {
		t.Errorf("RandomTracks() after Close error = %v, want ErrDatabaseClosed", err)
	}
	if _, err := db.CountTracks(ctx); !errors.Is(err, ErrDatabaseClosed) {
		t.Errorf("CountTracks() after Close error = %v, want ErrDatabaseClosed", err)
	}
	if err := db.Ping(ctx); !errors.Is(err, ErrDatabaseClosed) {
		t.Errorf("Ping() after Close error = %v, want ErrDatabaseClosed", err)
	}
}

func TestInsertTracksSkipsExisting(t *testing.T) {
	db := setupFixtureDB(t)
	ctx := context.Background()

	n, err := db.InsertTracks(ctx, fixtureTracks()[:2])
	if err != nil {
		t.Fatalf("InsertTracks() error = %v", err)
	}
	if n != 0 {
		t.Errorf("re-insert inserted %d, want 0", n)
	}

	count, err := db.CountTracks(ctx)
	if err != nil {
		t.Fatalf("CountTracks() error = %v", err)
	}
	if count != 6 {
		t.Errorf("CountTracks() = %d, want 6", count)
	}

	got, err := db.TracksByArtists(ctx, []string{"Bill Evans"}, 10)
	if err != nil {
		t.Fatalf("TracksByArtists() error = %v", err)
	}
	if len(got) != 1 || len(got[0].ArtistNames) != 2 {
		t.Errorf("artists duplicated after re-insert: %+v", got)
	}
}

func TestInsertTracksRejectsBlankID(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.InsertTracks(context.Background(), []models.CandidateTrack{{ID: "ok", Title: "a"}, {ID: " ", Title: "b"}})
	if err == nil {
		t.Fatal("InsertTracks() expected error for blank id")
	}
	count, _ := db.CountTracks(context.Background())
	if count != 0 {
		t.Errorf("failed batch left %d rows, want 0", count)
	}
}

func TestSeedDemoCatalog(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	n, err := db.SeedDemoCatalog(ctx)
	if err != nil {
		t.Fatalf("SeedDemoCatalog() error = %v", err)
	}
	if want := len(DemoCatalog()); n != want {
		t.Errorf("SeedDemoCatalog() = %d, want %d", n, want)
	}

	n, err = db.SeedDemoCatalog(ctx)
	if err != nil {
		t.Fatalf("second SeedDemoCatalog() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second SeedDemoCatalog() = %d, want 0", n)
	}
}

func TestDemoCatalogIsValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, tr := range DemoCatalog() {
		if seen[tr.ID] {
			t.Fatalf("duplicate demo id %s", tr.ID)
		}
		seen[tr.ID] = true
		if len(tr.ArtistNames) == 0 || len(tr.GenreNames) == 0 {
			t.Errorf("demo track %s missing artists or genres", tr.ID)
		}
		for _, v := range []float64{tr.Energy, tr.Danceability, tr.Valence} {
			if v < 0 || v > 1 {
				t.Errorf("demo track %s feature %v out of range", tr.ID, v)
			}
		}
	}
}
