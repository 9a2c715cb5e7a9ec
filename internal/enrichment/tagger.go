// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/models"
)

// maxGenresPerTrack caps how many genres are stored for one track.
const maxGenresPerTrack = 3

// Tagger assigns genres to a batch of tracks. The result maps track id to
// genres; tracks it could not tag are absent.
type Tagger interface {
	Tag(ctx context.Context, tracks []models.CandidateTrack) (map[string][]string, error)
}

const taggerInstruction = `You label music tracks with genres.
For every track listed, give one to three lowercase genre names such as "rock", "jazz", "hip hop", "ambient".
Use the track ids exactly as given.
Respond with a single JSON object and nothing else:
{"tracks": [{"id": "<track id>", "genres": ["<genre>", ...]}, ...]}`

type tagReply struct {
	Tracks []struct {
		ID     string   `json:"id"`
		Genres []string `json:"genres"`
	} `json:"tracks"`
}

// LLMTagger tags tracks with one text-generation call per batch.
type LLMTagger struct {
	client llm.Client
}

// NewLLMTagger creates a tagger backed by client.
func NewLLMTagger(client llm.Client) *LLMTagger {
	return &LLMTagger{client: client}
}

// Tag implements Tagger. Ids in the reply that were not asked for are ignored.
func (t *LLMTagger) Tag(ctx context.Context, tracks []models.CandidateTrack) (map[string][]string, error) {
	if len(tracks) == 0 {
		return map[string][]string{}, nil
	}

	reply, err := t.client.Generate(ctx, llm.Request{
		Operation: llm.OpEnrich,
		System:    taggerInstruction,
		User:      tagPrompt(tracks),
	})
	if err != nil {
		return nil, fmt.Errorf("tag request: %w", err)
	}

	decoded, err := llm.DecodeJSON[tagReply](reply)
	if err != nil {
		return nil, fmt.Errorf("tag reply: %w", err)
	}

	wanted := make(map[string]struct{}, len(tracks))
	for i := range tracks {
		wanted[tracks[i].ID] = struct{}{}
	}
	out := make(map[string][]string, len(decoded.Tracks))
	for _, tr := range decoded.Tracks {
		if _, ok := wanted[tr.ID]; !ok {
			continue
		}
		if genres := cleanGenres(tr.Genres); len(genres) > 0 {
			out[tr.ID] = genres
		}
	}
	return out, nil
}

func tagPrompt(tracks []models.CandidateTrack) string {
	var b strings.Builder
	b.WriteString("Tracks (id | title | artists):\n")
	for i := range tracks {
		fmt.Fprintf(&b, "%s | %s | %s\n", tracks[i].ID, tracks[i].Title, tracks[i].ArtistLine())
	}
	return b.String()
}

// cleanGenres lowercases, trims, dedupes and caps the list.
func cleanGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, maxGenresPerTrack)
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
		if len(out) == maxGenresPerTrack {
			break
		}
	}
	return out
}
