// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/cadence/internal/models"
)

func TestRandomTracks(t *testing.T) {
	db := setupFixtureDB(t)
	ctx := context.Background()

	got, err := db.RandomTracks(ctx, 3)
	if err != nil {
		t.Fatalf("RandomTracks() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("RandomTracks(3) returned %d tracks", len(got))
	}
	seen := map[string]bool{}
	for _, tr := range got {
		if seen[tr.ID] {
			t.Errorf("duplicate id %s in random sample", tr.ID)
		}
		seen[tr.ID] = true
		if len(tr.ArtistNames) == 0 {
			t.Errorf("track %s not hydrated with artists", tr.ID)
		}
	}

	all, err := db.RandomTracks(ctx, 100)
	if err != nil {
		t.Fatalf("RandomTracks(100) error = %v", err)
	}
	if len(all) != 6 {
		t.Errorf("RandomTracks(100) returned %d, want whole catalog of 6", len(all))
	}

	none, err := db.RandomTracks(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("RandomTracks(0) = %v, %v; want empty, nil", none, err)
	}
}

func TestRandomTracksEmptyCatalog(t *testing.T) {
	db := setupTestDB(t)
	got, err := db.RandomTracks(context.Background(), 24)
	if err != nil {
		t.Fatalf("RandomTracks() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("RandomTracks() on empty catalog returned %d tracks", len(got))
	}
}

func TestSearchText(t *testing.T) {
	db := setupFixtureDB(t)

	tests := []struct {
		name  string
		words []string
		want  []string
	}{
		{"artist substring", []string{"davis"}, []string{"t1", "t2"}},
		{"genre case-insensitive", []string{"HOUSE"}, []string{"t3"}},
		{"title words are ORed", []string{"green", "lune"}, []string{"t1", "t4"}},
		{"percent is literal", []string{"%"}, []string{"t5"}},
		{"underscore is literal", []string{"_"}, []string{"t5"}},
		{"no match", []string{"zzzz"}, []string{}},
		{"no words", nil, []string{}},
		{"blank words", []string{"  "}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.SearchText(context.Background(), tt.words, 10)
			if err != nil {
				t.Fatalf("SearchText() error = %v", err)
			}
			if ids := trackIDs(got); !equalIDs(ids, tt.want) {
				t.Errorf("SearchText(%v) = %v, want %v", tt.words, ids, tt.want)
			}
		})
	}
}

func TestSearchTextRespectsLimit(t *testing.T) {
	db := setupFixtureDB(t)
	got, err := db.SearchText(context.Background(), []string{"davis"}, 1)
	if err != nil {
		t.Fatalf("SearchText() error = %v", err)
	}
	if ids := trackIDs(got); !equalIDs(ids, []string{"t1"}) {
		t.Errorf("SearchText() = %v, want [t1]", ids)
	}
}

func TestTracksByGenres(t *testing.T) {
	db := setupFixtureDB(t)
	ctx := context.Background()

	got, err := db.TracksByGenres(ctx, []string{"JAZZ", " jazz "}, 10)
	if err != nil {
		t.Fatalf("TracksByGenres() error = %v", err)
	}
	if ids := trackIDs(got); !equalIDs(ids, []string{"t1", "t2"}) {
		t.Errorf("TracksByGenres(jazz) = %v, want [t1 t2]", ids)
	}

	got, err = db.TracksByGenres(ctx, []string{"polka"}, 10)
	if err != nil {
		t.Fatalf("TracksByGenres() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TracksByGenres(polka) = %v, want empty", trackIDs(got))
	}
}

func TestTracksByGenresHydratesSortedGenres(t *testing.T) {
	db := setupFixtureDB(t)
	got, err := db.TracksByGenres(context.Background(), []string{"house"}, 10)
	if err != nil {
		t.Fatalf("TracksByGenres() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("TracksByGenres(house) returned %d tracks", len(got))
	}
	if !equalIDs(got[0].GenreNames, []string{"electronic", "house"}) {
		t.Errorf("GenreNames = %v, want [electronic house]", got[0].GenreNames)
	}
}

func TestTracksByArtists(t *testing.T) {
	db := setupFixtureDB(t)
	got, err := db.TracksByArtists(context.Background(), []string{"bill evans"}, 10)
	if err != nil {
		t.Fatalf("TracksByArtists() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("TracksByArtists(bill evans) = %v, want [t1]", trackIDs(got))
	}
	if !equalIDs(got[0].ArtistNames, []string{"Miles Davis", "Bill Evans"}) {
		t.Errorf("ArtistNames = %v, want credit order", got[0].ArtistNames)
	}

	// exact membership, not substring
	got, err = db.TracksByArtists(context.Background(), []string{"miles"}, 10)
	if err != nil {
		t.Fatalf("TracksByArtists() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TracksByArtists(miles) = %v, want empty", trackIDs(got))
	}
}

func TestTracksByAudio(t *testing.T) {
	db := setupFixtureDB(t)

	tests := []struct {
		name   string
		filter models.AudioFilter
		want   []string
	}{
		{"low energy", models.AudioFilter{Energy: &models.Range{Min: 0, Max: 0.35}}, []string{"t1", "t2", "t4"}},
		{"low energy jazz", models.AudioFilter{Energy: &models.Range{Min: 0, Max: 0.35}, Genres: []string{"Jazz"}}, []string{"t1", "t2"}},
		{"happy", models.AudioFilter{Valence: &models.Range{Min: 0.6, Max: 1}}, []string{"t3"}},
		{"danceable and sad", models.AudioFilter{Danceability: &models.Range{Min: 0.8, Max: 1}, Valence: &models.Range{Min: 0, Max: 0.2}}, []string{}},
		{"unconstrained", models.AudioFilter{}, []string{"t1", "t3", "t2", "t4", "t5", "t6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.TracksByAudio(context.Background(), tt.filter, 10)
			if err != nil {
				t.Fatalf("TracksByAudio() error = %v", err)
			}
			if ids := trackIDs(got); !equalIDs(ids, tt.want) {
				t.Errorf("TracksByAudio() = %v, want %v", ids, tt.want)
			}
			for i := range got {
				if !tt.filter.Matches(&got[i]) {
					t.Errorf("track %s does not satisfy the in-memory filter", got[i].ID)
				}
			}
		})
	}
}

func TestTracksMissingGenresAndSetTrackGenres(t *testing.T) {
	db := setupFixtureDB(t)
	ctx := context.Background()

	missing, err := db.TracksMissingGenres(ctx, 10)
	if err != nil {
		t.Fatalf("TracksMissingGenres() error = %v", err)
	}
	if ids := trackIDs(missing); !equalIDs(ids, []string{"t6"}) {
		t.Fatalf("TracksMissingGenres() = %v, want [t6]", ids)
	}

	if err := db.SetTrackGenres(ctx, "t6", []string{"Rock", " rock", "Pop", ""}); err != nil {
		t.Fatalf("SetTrackGenres() error = %v", err)
	}

	missing, err = db.TracksMissingGenres(ctx, 10)
	if err != nil {
		t.Fatalf("TracksMissingGenres() error = %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("TracksMissingGenres() after tagging = %v, want empty", trackIDs(missing))
	}

	got, err := db.TracksByGenres(ctx, []string{"rock"}, 10)
	if err != nil {
		t.Fatalf("TracksByGenres() error = %v", err)
	}
	if len(got) != 1 || !equalIDs(got[0].GenreNames, []string{"pop", "rock"}) {
		t.Errorf("tagged track = %+v, want genres [pop rock]", got)
	}

	// replacing, not appending
	if err := db.SetTrackGenres(ctx, "t6", []string{"folk"}); err != nil {
		t.Fatalf("SetTrackGenres() error = %v", err)
	}
	got, _ = db.TracksByGenres(ctx, []string{"rock"}, 10)
	if len(got) != 0 {
		t.Errorf("old genres still present: %v", trackIDs(got))
	}
}

func TestTracksMissingGenresSkipsExhausted(t *testing.T) {
	db := setupFixtureDB(t)
	ctx := context.Background()

	if err := db.MarkEnrichmentExhausted(ctx, "t6", 3); err != nil {
		t.Fatalf("MarkEnrichmentExhausted() error = %v", err)
	}
	// marking twice updates the row
	if err := db.MarkEnrichmentExhausted(ctx, "t6", 4); err != nil {
		t.Fatalf("MarkEnrichmentExhausted() second call error = %v", err)
	}

	missing, err := db.TracksMissingGenres(ctx, 10)
	if err != nil {
		t.Fatalf("TracksMissingGenres() error = %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("TracksMissingGenres() = %v, want exhausted track skipped", trackIDs(missing))
	}
}

func TestQueriesHonourCancellation(t *testing.T) {
	db := setupFixtureDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := db.RandomTracks(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("RandomTracks() with canceled ctx error = %v, want context.Canceled", err)
	}
	if _, err := db.TracksByGenres(ctx, []string{"jazz"}, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("TracksByGenres() with canceled ctx error = %v, want context.Canceled", err)
	}
}
