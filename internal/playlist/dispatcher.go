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

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
)

// Catalog is the read-only catalog access the pipeline needs. Every lookup
// returns zero or more rows without error when nothing matches; errors mean
// a hard catalog fault. *database.DB implements it.
type Catalog interface {
	RandomTracks(ctx context.Context, limit int) ([]models.CandidateTrack, error)
	SearchText(ctx context.Context, words []string, limit int) ([]models.CandidateTrack, error)
	TracksByGenres(ctx context.Context, genres []string, limit int) ([]models.CandidateTrack, error)
	TracksByArtists(ctx context.Context, artists []string, limit int) ([]models.CandidateTrack, error)
	TracksByAudio(ctx context.Context, filter models.AudioFilter, limit int) ([]models.CandidateTrack, error)
}

// minQueryWordRunes is the shortest word kept from a text-mood query.
const minQueryWordRunes = 3

// Dispatcher turns a StrategyDecision into a CandidatePool.
type Dispatcher struct {
	catalog Catalog
}

// NewDispatcher creates a dispatcher over catalog.
func NewDispatcher(catalog Catalog) *Dispatcher {
	return &Dispatcher{catalog: catalog}
}

// Retrieve runs the decision's lookup and returns the pool together with
// the strategy that actually produced it. When a non-random lookup finds
// nothing, a random sample is taken before returning, so an empty pool
// means the catalog itself is empty. A catalog fault is a *RetrievalError.
func (d *Dispatcher) Retrieve(ctx context.Context, decision StrategyDecision, limit int) (CandidatePool, Strategy, error) {
	params := decision.Params
	if params == nil {
		params = RandomParams{}
	}

	tracks, used, err := d.primary(ctx, params, limit)
	if err != nil {
		return CandidatePool{}, used, &RetrievalError{Strategy: used, Err: err}
	}
	if len(tracks) > 0 || used == StrategyRandom {
		return NewCandidatePool(tracks), used, nil
	}

	logging.Ctx(ctx).Debug().
		Str("strategy", used.String()).
		Msg("Primary lookup returned no tracks, sampling randomly")

	tracks, err = d.catalog.RandomTracks(ctx, limit)
	if err != nil {
		return CandidatePool{}, StrategyRandom, &RetrievalError{Strategy: StrategyRandom, Err: err}
	}
	return NewCandidatePool(tracks), StrategyRandom, nil
}

func (d *Dispatcher) primary(ctx context.Context, params StrategyParams, limit int) ([]models.CandidateTrack, Strategy, error) {
	switch p := params.(type) {
	case RandomParams:
		tracks, err := d.catalog.RandomTracks(ctx, limit)
		return tracks, StrategyRandom, err
	case TextMoodParams:
		words := QueryWords(p.Query)
		if len(words) == 0 {
			tracks, err := d.catalog.RandomTracks(ctx, limit)
			return tracks, StrategyRandom, err
		}
		tracks, err := d.catalog.SearchText(ctx, words, limit)
		return tracks, StrategyTextMood, err
	case GenreParams:
		tracks, err := d.catalog.TracksByGenres(ctx, p.Genres, limit)
		return tracks, StrategyGenre, err
	case ArtistParams:
		tracks, err := d.catalog.TracksByArtists(ctx, p.Artists, limit)
		return tracks, StrategyArtist, err
	case AudioCriteriaParams:
		tracks, err := d.catalog.TracksByAudio(ctx, p.Filter(), limit)
		return tracks, StrategyAudioCriteria, err
	default:
		return nil, params.Strategy(), fmt.Errorf("no lookup for %T", params)
	}
}

// QueryWords splits a free-text query on anything that is not a letter or
// digit and keeps distinct lowercased words of at least three runes.
func QueryWords(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.ToLower(f)
		if utf8.RuneCountInString(w) < minQueryWordRunes {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
