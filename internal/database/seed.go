// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
)

type demoArtist struct {
	name   string
	genres []string
	// baseline audio profile, nudged per track
	energy, dance, valence float64
}

var demoArtists = []demoArtist{
	{"Nightshift Radio", []string{"synthwave", "electronic"}, 0.72, 0.68, 0.55},
	{"Paper Lanterns", []string{"lo-fi", "chillhop"}, 0.28, 0.55, 0.50},
	{"The Marigolds", []string{"indie rock", "rock"}, 0.70, 0.48, 0.62},
	{"Sofia Alvarez", []string{"latin pop", "pop"}, 0.78, 0.82, 0.80},
	{"Glass Harbor", []string{"ambient"}, 0.12, 0.20, 0.35},
	{"Brass Tacks Collective", []string{"jazz", "soul"}, 0.45, 0.52, 0.66},
	{"Kilowatt", []string{"drum and bass", "electronic"}, 0.93, 0.70, 0.45},
	{"Juniper & Vale", []string{"folk", "acoustic"}, 0.30, 0.38, 0.58},
	{"MC Granite", []string{"hip hop"}, 0.74, 0.80, 0.52},
	{"Aurora Fields", []string{"dream pop", "indie pop"}, 0.42, 0.46, 0.48},
	{"Iron Choir", []string{"metal"}, 0.95, 0.32, 0.25},
	{"Lena Okafor", []string{"r&b", "soul"}, 0.52, 0.72, 0.60},
	{"Quiet Engines", []string{"post-rock"}, 0.55, 0.25, 0.30},
	{"Solstice Club", []string{"house", "dance"}, 0.84, 0.90, 0.74},
	{"Old Pine Ramblers", []string{"country", "bluegrass"}, 0.58, 0.60, 0.76},
	{"Mira Sato", []string{"classical", "piano"}, 0.15, 0.18, 0.40},
}

var demoTitleWords = [][2]string{
	{"Midnight", "Drive"}, {"Slow", "Morning"}, {"Electric", "Heart"}, {"Golden", "Hour"},
	{"Paper", "Moons"}, {"Rainy", "Window"}, {"Northern", "Lights"}, {"Velvet", "Rooms"},
	{"Summer", "Static"}, {"Quiet", "Storm"}, {"Neon", "Rivers"}, {"Silver", "Lining"},
}

// DemoCatalog returns the deterministic demo catalog: every demo artist
// paired with every title, with audio features derived from the artist.
func DemoCatalog() []models.CandidateTrack {
	tracks := make([]models.CandidateTrack, 0, len(demoArtists)*len(demoTitleWords))
	for ai, a := range demoArtists {
		for ti, w := range demoTitleWords {
			nudge := float64((ai*7+ti*13)%21-10) / 100
			t := models.CandidateTrack{
				ID:              fmt.Sprintf("demo-%02d-%02d", ai, ti),
				Title:           w[0] + " " + w[1],
				ArtistNames:     []string{a.name},
				GenreNames:      append([]string(nil), a.genres...),
				Energy:          clamp01(a.energy + nudge),
				Danceability:    clamp01(a.dance - nudge/2),
				Valence:         clamp01(a.valence + nudge/2),
				DurationSeconds: 150 + (ai*31+ti*17)%150,
				Explicit:        a.name == "MC Granite" && ti%3 == 0,
				Popularity:      (ai*11 + ti*29) % 100,
			}
			// occasional feature credit
			if ti%5 == 4 {
				t.ArtistNames = append(t.ArtistNames, demoArtists[(ai+3)%len(demoArtists)].name)
			}
			tracks = append(tracks, t)
		}
	}
	return tracks
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// SeedDemoCatalog inserts the demo catalog into an empty database. A
// catalog that already has tracks is left untouched.
func (db *DB) SeedDemoCatalog(ctx context.Context) (int, error) {
	n, err := db.CountTracks(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.Debug().Int64("tracks", n).Msg("Catalog not empty, skipping demo seed")
		return 0, nil
	}

	inserted, err := db.InsertTracks(ctx, DemoCatalog())
	if err != nil {
		return 0, fmt.Errorf("failed to seed demo catalog: %w", err)
	}
	logging.Info().Int("tracks", inserted).Msg("Seeded demo catalog")
	return inserted, nil
}
