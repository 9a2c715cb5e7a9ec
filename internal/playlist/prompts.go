// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/cadence/internal/models"
)

const classifierInstruction = `You route playlist requests to a retrieval strategy for a music catalog.

Choose exactly one strategy:
- "random": no usable preference, or the user asks to be surprised.
- "text_mood": a mood, activity, theme or scene described in words.
- "genre": one or more named musical genres.
- "artist": one or more named artists or bands.
- "audio_criteria": explicit sonic properties such as energy, danceability or positivity, optionally with genres.

Respond with a single JSON object and nothing else:
{"strategy": "<name>", "reasoning": "<one sentence>", "params": {...}}

params by strategy:
- random: {}
- text_mood: {"query": "<short mood or theme phrase>"}
- genre: {"genres": ["<genre>", ...]}
- artist: {"artists": ["<artist>", ...]}
- audio_criteria: {"energy": {"min": 0.0, "max": 1.0}, "danceability": {"min": 0.0, "max": 1.0}, "valence": {"min": 0.0, "max": 1.0}, "genres": ["<optional genre>"]}
  Include only the ranges the request implies. All values lie between 0 and 1.

Examples:
"surprise me" -> {"strategy":"random","reasoning":"no preference","params":{}}
"a chill playlist for studying" -> {"strategy":"text_mood","reasoning":"describes a mood and activity","params":{"query":"chill study focus"}}
"90s grunge and alternative rock" -> {"strategy":"genre","reasoning":"names genres","params":{"genres":["grunge","alternative rock"]}}
"songs like Daft Punk and Justice" -> {"strategy":"artist","reasoning":"names artists","params":{"artists":["Daft Punk","Justice"]}}
"high energy upbeat workout tracks" -> {"strategy":"audio_criteria","reasoning":"explicit energy and positivity","params":{"energy":{"min":0.75,"max":1.0},"valence":{"min":0.6,"max":1.0}}}`

const selectorInstruction = `You curate playlists from a fixed list of candidate tracks.

Rules:
- Pick exactly the requested number of tracks, using only ids from the candidate list.
- Favour relevance to the request first.
- Spread the selection across artists; avoid more than two tracks by one artist when alternatives exist.
- Order the tracks for pacing: a gentle opening, a build, and a satisfying close.
- Never repeat an id and never invent one.

Respond with a single JSON object and nothing else:
{"tracks": [{"id": "<candidate id>", "title": "<candidate title>"}, ...]}`

const synthesizerInstruction = `You name playlists.

Write a short, shareable title (at most 6 words) and a one- or two-sentence description ending with two or three relevant hashtags.
Write both in the same language as the request.

Respond with a single JSON object and nothing else:
{"title": "<title>", "description": "<description>"}`

// classifierUserPrompt wraps the raw request.
func classifierUserPrompt(prompt string) string {
	return "Request: " + prompt
}

// selectorUserPrompt lists the candidate window and the target size.
func selectorUserPrompt(prompt string, candidates []models.CandidateTrack, target int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Request: %s\n", prompt)
	fmt.Fprintf(&b, "Select exactly %d tracks.\n\n", target)
	b.WriteString("Candidates (id | title | artists | genres | energy/danceability/valence):\n")
	for i := range candidates {
		t := &candidates[i]
		fmt.Fprintf(&b, "%s | %s | %s | %s | %.2f/%.2f/%.2f\n",
			t.ID, t.Title, t.ArtistLine(), strings.Join(t.GenreNames, ", "),
			t.Energy, t.Danceability, t.Valence)
	}
	return b.String()
}

const (
	synthExampleTracks = 5
	synthTopGenres     = 3
	synthTopArtists    = 3
)

// synthesizerUserPrompt summarises the final selection.
func synthesizerUserPrompt(prompt string, tracks []models.CandidateTrack, strategy Strategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Request: %s\n", prompt)
	fmt.Fprintf(&b, "Strategy: %s\n", strategy)
	fmt.Fprintf(&b, "Track count: %d\n", len(tracks))

	b.WriteString("Example tracks:\n")
	for i := 0; i < len(tracks) && i < synthExampleTracks; i++ {
		fmt.Fprintf(&b, "- %s by %s\n", tracks[i].Title, tracks[i].ArtistLine())
	}

	genres := topNames(tracks, synthTopGenres, func(t *models.CandidateTrack) []string { return t.GenreNames })
	if len(genres) > 0 {
		fmt.Fprintf(&b, "Top genres: %s\n", strings.Join(genres, ", "))
	}
	artists := topNames(tracks, synthTopArtists, func(t *models.CandidateTrack) []string { return t.ArtistNames })
	if len(artists) > 0 {
		fmt.Fprintf(&b, "Top artists: %s\n", strings.Join(artists, ", "))
	}
	return b.String()
}

// topNames returns up to n names by frequency, ties broken by first appearance.
func topNames(tracks []models.CandidateTrack, n int, names func(*models.CandidateTrack) []string) []string {
	type entry struct {
		name  string
		count int
		first int
	}
	index := make(map[string]int)
	var entries []entry
	for i := range tracks {
		for _, name := range names(&tracks[i]) {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" {
				continue
			}
			if j, ok := index[key]; ok {
				entries[j].count++
				continue
			}
			index[key] = len(entries)
			entries = append(entries, entry{name: name, count: 1, first: len(entries)})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})
	out := make([]string, 0, n)
	for i := 0; i < len(entries) && i < n; i++ {
		out = append(out, entries[i].name)
	}
	return out
}
