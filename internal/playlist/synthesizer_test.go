// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/tomtom215/cadence/internal/llm"
)

func TestSynthesizerDecodesMetadata(t *testing.T) {
	client := llm.NewScripted().On(llm.OpSynthesize,
		llm.Reply("```json\n{\"title\": \"  Night Drive \", \"description\": \"Neon and tail lights.\"}\n```"))

	meta := NewSynthesizer(client).Synthesize(context.Background(), "late night drive", makeTracks(8), StrategyTextMood)
	assert.Equal(t, Metadata{Title: "Night Drive", Description: "Neon and tail lights."}, meta)
}

func TestSynthesizerIgnoresBracketsInProse(t *testing.T) {
	client := llm.NewScripted().On(llm.OpSynthesize,
		llm.Reply(`Title ideas [draft]: {"title": "T", "description": "D #tag"}`))

	meta := NewSynthesizer(client).Synthesize(context.Background(), "p", makeTracks(3), StrategyGenre)
	assert.Equal(t, Metadata{Title: "T", Description: "D #tag"}, meta)
}

func TestSynthesizerClipsLongFields(t *testing.T) {
	long := strings.Repeat("é", 700)
	client := llm.NewScripted().On(llm.OpSynthesize,
		llm.Reply(`{"title": "`+long+`", "description": "`+long+`"}`))

	meta := NewSynthesizer(client).Synthesize(context.Background(), "p", makeTracks(2), StrategyRandom)
	assert.Equal(t, maxTitleRunes, utf8.RuneCountInString(meta.Title))
	assert.Equal(t, maxDescriptionRunes, utf8.RuneCountInString(meta.Description))
}

func TestSynthesizerNeverFails(t *testing.T) {
	for name, r := range map[string]llm.Responder{
		"transport": llm.Fail(errors.New("unreachable")),
		"garbage":   llm.Reply("what a lovely playlist"),
	} {
		t.Run(name, func(t *testing.T) {
			client := llm.NewScripted().On(llm.OpSynthesize, r)
			meta := NewSynthesizer(client).Synthesize(context.Background(), "p", makeTracks(2), StrategyGenre)
			assert.Equal(t, Metadata{}, meta)
		})
	}
}

func TestSynthesizerPromptSummarisesTracks(t *testing.T) {
	var user string
	client := llm.NewScripted().On(llm.OpSynthesize, func(_ context.Context, req llm.Request) (string, error) {
		user = req.User
		return `{"title": "t", "description": "d"}`, nil
	})
	NewSynthesizer(client).Synthesize(context.Background(), "jazz for reading", makeTracks(12), StrategyGenre)

	assert.Contains(t, user, "jazz for reading")
	assert.Contains(t, user, "Strategy: genre")
	assert.Contains(t, user, "Track count: 12")
	assert.Contains(t, user, "- Song 0 by Artist 0")
	assert.NotContains(t, user, "- Song 5 by")
	assert.Contains(t, user, "Top genres: rock, jazz, pop")
	assert.Contains(t, user, "Top artists: Artist 0, Artist 1, Artist 2")
}

func TestPlaceholderMetadata(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		count    int
		strategy Strategy
		want     Metadata
	}{
		{
			name:     "first six words",
			prompt:   "upbeat songs for a long summer road trip",
			count:    24,
			strategy: StrategyTextMood,
			want:     Metadata{Title: "Upbeat Songs For A Long Summer", Description: "24 tracks picked by mood selection."},
		},
		{
			name:     "punctuation stripped",
			prompt:   "jazz, please!",
			count:    1,
			strategy: StrategyGenre,
			want:     Metadata{Title: "Jazz Please", Description: "1 track picked by genre selection."},
		},
		{
			name:     "empty prompt",
			prompt:   "  ",
			count:    3,
			strategy: StrategyAudioCriteria,
			want:     Metadata{Title: "Your Playlist", Description: "3 tracks picked by audio profile selection."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceholderMetadata(tt.prompt, tt.count, tt.strategy))
		})
	}
}
