// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
)

const (
	maxTitleRunes       = 100
	maxDescriptionRunes = 500
	placeholderWords    = 6
)

// Synthesizer derives a shareable title and description for a playlist.
type Synthesizer struct {
	client llm.Client
}

// NewSynthesizer creates a synthesizer backed by client.
func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize never fails: any error yields an empty Metadata.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string, tracks []models.CandidateTrack, strategy Strategy) Metadata {
	reply, err := s.client.Generate(ctx, llm.Request{
		Operation: llm.OpSynthesize,
		System:    synthesizerInstruction,
		User:      synthesizerUserPrompt(prompt, tracks, strategy),
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Metadata synthesis failed")
		return Metadata{}
	}
	meta, err := llm.DecodeJSON[Metadata](reply)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Metadata synthesis reply unusable")
		return Metadata{}
	}
	return Metadata{
		Title:       clip(strings.TrimSpace(meta.Title), maxTitleRunes),
		Description: clip(strings.TrimSpace(meta.Description), maxDescriptionRunes),
	}
}

// PlaceholderMetadata is the deterministic stand-in for whichever field
// synthesis left empty: a title from the prompt's first words and a
// description from the track count and strategy.
func PlaceholderMetadata(prompt string, trackCount int, strategy Strategy) Metadata {
	words := strings.FieldsFunc(prompt, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'' && r != '-')
	})
	if len(words) > placeholderWords {
		words = words[:placeholderWords]
	}
	title := "Your Playlist"
	if len(words) > 0 {
		for i, w := range words {
			r, size := utf8.DecodeRuneInString(w)
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
		title = clip(strings.Join(words, " "), maxTitleRunes)
	}

	noun := "tracks"
	if trackCount == 1 {
		noun = "track"
	}
	return Metadata{
		Title:       title,
		Description: fmt.Sprintf("%d %s picked by %s selection.", trackCount, noun, strategyLabel(strategy)),
	}
}

func strategyLabel(s Strategy) string {
	switch s {
	case StrategyTextMood:
		return "mood"
	case StrategyAudioCriteria:
		return "audio profile"
	default:
		return s.String()
	}
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
