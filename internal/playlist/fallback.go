// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"context"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
)

// Tier is a fallback level. Tiers are entered in order and never left
// backwards.
type Tier int

const (
	// TierPrimary is classify -> retrieve -> select.
	TierPrimary Tier = iota
	// TierDefaultStrategy replaces a failed classification with random.
	TierDefaultStrategy
	// TierRandomTracks samples target random tracks and skips selection.
	TierRandomTracks
	// TierEmptyCatalog is terminal: no tracks exist.
	TierEmptyCatalog
)

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierDefaultStrategy:
		return "default_strategy"
	case TierRandomTracks:
		return "random_tracks"
	case TierEmptyCatalog:
		return "empty_catalog"
	default:
		return "unknown"
	}
}

// FallbackController tracks the current tier of one generation. It is not
// safe for concurrent use; each request owns one.
type FallbackController struct {
	tier       Tier
	promptHash string
}

// NewFallbackController starts at TierPrimary. promptHash identifies the
// request in logs without exposing the prompt.
func NewFallbackController(promptHash string) *FallbackController {
	return &FallbackController{tier: TierPrimary, promptHash: promptHash}
}

// Tier returns the current tier.
func (f *FallbackController) Tier() Tier { return f.tier }

// Degraded reports whether any tier below primary was entered.
func (f *FallbackController) Degraded() bool { return f.tier > TierPrimary }

// Advance moves to tier to, logging the cause and counting the transition.
// Moves that are not strictly forward are ignored and return false.
func (f *FallbackController) Advance(ctx context.Context, to Tier, stage Stage, cause error) bool {
	if to <= f.tier || to > TierEmptyCatalog {
		return false
	}
	from := f.tier
	f.tier = to

	metrics.RecordFallbackTransition(from.String(), to.String(), string(stage))
	logging.Ctx(ctx).Warn().
		Err(cause).
		Str("stage", string(stage)).
		Str("from_tier", from.String()).
		Str("to_tier", to.String()).
		Str("prompt_hash", f.promptHash).
		Msg("Playlist pipeline falling back")
	return true
}
