// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package models

import "strings"

// CandidateTrack is a read-only catalog track as seen by the pipeline.
type CandidateTrack struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	ArtistNames     []string `json:"artists"` // ordered, primary artist first
	GenreNames      []string `json:"genres"`
	Energy          float64  `json:"energy"`
	Danceability    float64  `json:"danceability"`
	Valence         float64  `json:"valence"`
	DurationSeconds int      `json:"duration_seconds"`
	Explicit        bool     `json:"explicit"`
	Popularity      int      `json:"popularity"`
	PreviewURL      string   `json:"preview_url,omitempty"`
}

// PrimaryArtist returns the first credited artist or "".
func (t *CandidateTrack) PrimaryArtist() string {
	if len(t.ArtistNames) == 0 {
		return ""
	}
	return t.ArtistNames[0]
}

// ArtistLine joins the credited artists for display and prompts.
func (t *CandidateTrack) ArtistLine() string {
	return strings.Join(t.ArtistNames, ", ")
}

// Range is an inclusive [Min, Max] bound on a normalized audio feature.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// AudioFilter is the conjunctive filter used by audio-criteria retrieval.
// A nil range leaves that feature unconstrained; an empty Genres list leaves
// genre unconstrained.
type AudioFilter struct {
	Energy       *Range
	Danceability *Range
	Valence      *Range
	Genres       []string
}

// Matches applies the filter in memory. The catalog applies the same rules in SQL.
func (f AudioFilter) Matches(t *CandidateTrack) bool {
	if f.Energy != nil && !f.Energy.Contains(t.Energy) {
		return false
	}
	if f.Danceability != nil && !f.Danceability.Contains(t.Danceability) {
		return false
	}
	if f.Valence != nil && !f.Valence.Contains(t.Valence) {
		return false
	}
	if len(f.Genres) == 0 {
		return true
	}
	for _, want := range f.Genres {
		for _, have := range t.GenreNames {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}
