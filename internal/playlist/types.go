// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"fmt"
	"strings"

	"github.com/tomtom215/cadence/internal/models"
)

// Strategy is the retrieval mode chosen for a request.
type Strategy int

const (
	StrategyRandom Strategy = iota
	StrategyTextMood
	StrategyGenre
	StrategyArtist
	StrategyAudioCriteria
)

var strategyNames = [...]string{
	StrategyRandom:        "random",
	StrategyTextMood:      "text_mood",
	StrategyGenre:         "genre",
	StrategyArtist:        "artist",
	StrategyAudioCriteria: "audio_criteria",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// ParseStrategy maps a wire name to a Strategy after trimming and lowercasing.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// StrategyParams is the parameter set of one strategy. The set of
// implementations is closed: RandomParams, TextMoodParams, GenreParams,
// ArtistParams and AudioCriteriaParams.
type StrategyParams interface {
	Strategy() Strategy
	sealed()
}

// RandomParams carries no parameters.
type RandomParams struct{}

// TextMoodParams is a free-text mood or theme query.
type TextMoodParams struct {
	Query string
}

// GenreParams lists genre names to match exactly (case-normalized).
type GenreParams struct {
	Genres []string
}

// ArtistParams lists artist names to match exactly (case-normalized).
type ArtistParams struct {
	Artists []string
}

// AudioCriteriaParams bounds audio features. Nil ranges are unconstrained.
type AudioCriteriaParams struct {
	Energy       *models.Range
	Danceability *models.Range
	Valence      *models.Range
	Genres       []string
}

func (RandomParams) Strategy() Strategy        { return StrategyRandom }
func (TextMoodParams) Strategy() Strategy      { return StrategyTextMood }
func (GenreParams) Strategy() Strategy         { return StrategyGenre }
func (ArtistParams) Strategy() Strategy        { return StrategyArtist }
func (AudioCriteriaParams) Strategy() Strategy { return StrategyAudioCriteria }

func (RandomParams) sealed()        {}
func (TextMoodParams) sealed()      {}
func (GenreParams) sealed()         {}
func (ArtistParams) sealed()        {}
func (AudioCriteriaParams) sealed() {}

// Filter converts the params into the catalog's audio filter.
func (p AudioCriteriaParams) Filter() models.AudioFilter {
	return models.AudioFilter{
		Energy:       p.Energy,
		Danceability: p.Danceability,
		Valence:      p.Valence,
		Genres:       p.Genres,
	}
}

// StrategyDecision is the classifier's output. Build it with NewDecision so
// Strategy always agrees with Params.
type StrategyDecision struct {
	Strategy  Strategy
	Reasoning string
	Params    StrategyParams
}

// NewDecision derives the strategy from params. Nil params mean random.
func NewDecision(params StrategyParams, reasoning string) StrategyDecision {
	if params == nil {
		params = RandomParams{}
	}
	return StrategyDecision{Strategy: params.Strategy(), Reasoning: reasoning, Params: params}
}

// DefaultDecision is substituted when classification fails.
func DefaultDecision() StrategyDecision {
	return NewDecision(RandomParams{}, "default strategy after classification failure")
}

// CandidatePool is an ordered, id-unique set of candidate tracks.
type CandidatePool struct {
	tracks []models.CandidateTrack
	byID   map[string]int
}

// NewCandidatePool keeps the first occurrence of each id, preserving order.
// Tracks with an empty id are dropped.
func NewCandidatePool(tracks []models.CandidateTrack) CandidatePool {
	p := CandidatePool{
		tracks: make([]models.CandidateTrack, 0, len(tracks)),
		byID:   make(map[string]int, len(tracks)),
	}
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if _, dup := p.byID[t.ID]; dup {
			continue
		}
		p.byID[t.ID] = len(p.tracks)
		p.tracks = append(p.tracks, t)
	}
	return p
}

// Len returns the number of tracks in the pool.
func (p CandidatePool) Len() int { return len(p.tracks) }

// Tracks returns a copy of the pool in order.
func (p CandidatePool) Tracks() []models.CandidateTrack {
	out := make([]models.CandidateTrack, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Lookup returns the pool member with id.
func (p CandidatePool) Lookup(id string) (models.CandidateTrack, bool) {
	i, ok := p.byID[id]
	if !ok {
		return models.CandidateTrack{}, false
	}
	return p.tracks[i], true
}

// SelectionResult is the Selector's output: pool members in playlist order.
type SelectionResult struct {
	Tracks []models.CandidateTrack
	Padded bool // unused pool members were appended to reach target
}

// Metadata is the synthesized title and description.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Request is the inbound generation request.
type Request struct {
	Prompt     string
	SessionID  string // only used to route progress events
	TargetSize int    // 0 selects the configured default
}

// PlaylistDraft is the pipeline's result.
type PlaylistDraft struct {
	Tracks       []models.CandidateTrack
	Title        string
	Description  string
	StrategyUsed Strategy
	Degraded     bool // a fallback tier or selection padding was used
	Requested    int  // target size after defaults and clamping
}

// DurationSeconds sums the track durations.
func (d *PlaylistDraft) DurationSeconds() int {
	total := 0
	for i := range d.Tracks {
		total += d.Tracks[i].DurationSeconds
	}
	return total
}
