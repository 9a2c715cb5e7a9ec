// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/models"
)

// Classifier maps a prompt to a StrategyDecision via the text-generation service.
type Classifier struct {
	client llm.Client
}

// NewClassifier creates a classifier backed by client.
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify returns the decision for prompt. Any transport, decode or
// validation failure is a *ClassificationError; nothing is auto-corrected.
func (c *Classifier) Classify(ctx context.Context, prompt string) (StrategyDecision, error) {
	if strings.TrimSpace(prompt) == "" {
		return StrategyDecision{}, &ClassificationError{Reason: "empty prompt"}
	}

	reply, err := c.client.Generate(ctx, llm.Request{
		Operation: llm.OpClassify,
		System:    classifierInstruction,
		User:      classifierUserPrompt(prompt),
	})
	if err != nil {
		return StrategyDecision{}, &ClassificationError{Reason: "text generation", Err: err}
	}

	decision, err := parseDecision(reply)
	if err != nil {
		return StrategyDecision{}, &ClassificationError{Reason: "invalid response", Err: err}
	}
	return decision, nil
}

type classifierReply struct {
	Strategy  string          `json:"strategy"`
	Reasoning string          `json:"reasoning"`
	Params    json.RawMessage `json:"params"`
}

type textMoodWire struct {
	Query string `json:"query"`
}

type genreWire struct {
	Genres []string `json:"genres"`
}

type artistWire struct {
	Artists []string `json:"artists"`
}

type audioWire struct {
	Energy       *models.Range `json:"energy"`
	Danceability *models.Range `json:"danceability"`
	Valence      *models.Range `json:"valence"`
	Genres       []string      `json:"genres"`
}

// parseDecision decodes a classifier reply and validates params against
// the named strategy.
func parseDecision(reply string) (StrategyDecision, error) {
	r, err := llm.DecodeJSON[classifierReply](reply)
	if err != nil {
		return StrategyDecision{}, err
	}
	strategy, err := ParseStrategy(r.Strategy)
	if err != nil {
		return StrategyDecision{}, err
	}
	params, err := decodeParams(strategy, r.Params)
	if err != nil {
		return StrategyDecision{}, fmt.Errorf("params for %s: %w", strategy, err)
	}
	return NewDecision(params, strings.TrimSpace(r.Reasoning)), nil
}

func decodeParams(strategy Strategy, raw json.RawMessage) (StrategyParams, error) {
	absent := len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"

	switch strategy {
	case StrategyRandom:
		if !absent {
			var empty struct{}
			if err := llm.DecodeStrict(raw, &empty); err != nil {
				return nil, err
			}
		}
		return RandomParams{}, nil

	case StrategyTextMood:
		if absent {
			return nil, errors.New("missing params")
		}
		var w textMoodWire
		if err := llm.DecodeStrict(raw, &w); err != nil {
			return nil, err
		}
		q := strings.TrimSpace(w.Query)
		if q == "" {
			return nil, errors.New("query must be non-empty")
		}
		return TextMoodParams{Query: q}, nil

	case StrategyGenre:
		if absent {
			return nil, errors.New("missing params")
		}
		var w genreWire
		if err := llm.DecodeStrict(raw, &w); err != nil {
			return nil, err
		}
		genres := cleanNames(w.Genres)
		if len(genres) == 0 {
			return nil, errors.New("genres must be non-empty")
		}
		return GenreParams{Genres: genres}, nil

	case StrategyArtist:
		if absent {
			return nil, errors.New("missing params")
		}
		var w artistWire
		if err := llm.DecodeStrict(raw, &w); err != nil {
			return nil, err
		}
		artists := cleanNames(w.Artists)
		if len(artists) == 0 {
			return nil, errors.New("artists must be non-empty")
		}
		return ArtistParams{Artists: artists}, nil

	case StrategyAudioCriteria:
		if absent {
			return nil, errors.New("missing params")
		}
		var w audioWire
		if err := llm.DecodeStrict(raw, &w); err != nil {
			return nil, err
		}
		if w.Energy == nil && w.Danceability == nil && w.Valence == nil {
			return nil, errors.New("at least one audio range is required")
		}
		for _, r := range []struct {
			name string
			r    *models.Range
		}{{"energy", w.Energy}, {"danceability", w.Danceability}, {"valence", w.Valence}} {
			if err := validateRange(r.name, r.r); err != nil {
				return nil, err
			}
		}
		return AudioCriteriaParams{
			Energy:       w.Energy,
			Danceability: w.Danceability,
			Valence:      w.Valence,
			Genres:       cleanNames(w.Genres),
		}, nil
	}
	return nil, fmt.Errorf("unsupported strategy %s", strategy)
}

func validateRange(name string, r *models.Range) error {
	if r == nil {
		return nil
	}
	if r.Min < 0 || r.Max > 1 || r.Min > r.Max {
		return fmt.Errorf("%s range [%g, %g] must satisfy 0 <= min <= max <= 1", name, r.Min, r.Max)
	}
	return nil
}

// cleanNames trims names, drops blanks and removes case-insensitive duplicates.
func cleanNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
