// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/models"
)

// Pipeline defaults, used when the corresponding config value is zero.
const (
	DefaultTargetSize        = 24
	DefaultMaxTargetSize     = 100
	DefaultPoolSize          = 50
	DefaultClassifyTimeout   = 20 * time.Second
	DefaultRetrieveTimeout   = 10 * time.Second
	DefaultSelectTimeout     = 30 * time.Second
	DefaultSynthesizeTimeout = 20 * time.Second
)

// Generator runs the full pipeline. It is safe for concurrent use.
type Generator struct {
	cfg         config.PipelineConfig
	catalog     Catalog
	classifier  *Classifier
	dispatcher  *Dispatcher
	selector    *Selector
	synthesizer *Synthesizer
	notifier    Notifier
}

// NewGenerator wires the stages over one text-generation client and one
// catalog. A nil notifier disables progress events.
func NewGenerator(cfg config.PipelineConfig, client llm.Client, catalog Catalog, notifier Notifier) *Generator {
	applyPipelineDefaults(&cfg)
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Generator{
		cfg:         cfg,
		catalog:     catalog,
		classifier:  NewClassifier(client),
		dispatcher:  NewDispatcher(catalog),
		selector:    NewSelector(client, cfg.SelectionWindow),
		synthesizer: NewSynthesizer(client),
		notifier:    notifier,
	}
}

func applyPipelineDefaults(cfg *config.PipelineConfig) {
	if cfg.DefaultTargetSize <= 0 {
		cfg.DefaultTargetSize = DefaultTargetSize
	}
	if cfg.MaxTargetSize <= 0 {
		cfg.MaxTargetSize = DefaultMaxTargetSize
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.SelectionWindow <= 0 {
		cfg.SelectionWindow = DefaultSelectionWindow
	}
	if cfg.ClassifyTimeout <= 0 {
		cfg.ClassifyTimeout = DefaultClassifyTimeout
	}
	if cfg.RetrieveTimeout <= 0 {
		cfg.RetrieveTimeout = DefaultRetrieveTimeout
	}
	if cfg.SelectTimeout <= 0 {
		cfg.SelectTimeout = DefaultSelectTimeout
	}
	if cfg.SynthesizeTimeout <= 0 {
		cfg.SynthesizeTimeout = DefaultSynthesizeTimeout
	}
}

// TargetSize resolves a requested size: zero or negative selects the
// default, anything above the maximum is clamped.
func (g *Generator) TargetSize(requested int) int {
	switch {
	case requested <= 0:
		return g.cfg.DefaultTargetSize
	case requested > g.cfg.MaxTargetSize:
		return g.cfg.MaxTargetSize
	default:
		return requested
	}
}

// GeneratePlaylist turns a prompt into a playlist.
//
// It returns a draft with between 1 and the target number of tracks, or a
// *EmptyCatalogError when not even a random sample exists. Cancellation of
// ctx itself (as opposed to a stage timeout) aborts with an error wrapping
// ctx.Err().
func (g *Generator) GeneratePlaylist(ctx context.Context, req Request) (*PlaylistDraft, error) {
	start := time.Now()
	target := g.TargetSize(req.TargetSize)
	if req.SessionID != "" {
		ctx = logging.ContextWithSessionID(ctx, req.SessionID)
	}
	fc := NewFallbackController(logging.PromptHash(req.Prompt))

	g.notify(ctx, req.SessionID, ProgressEvent{Stage: ProgressAnalysisStarted})

	// Tier 1 -> 2: classification
	decision, err := g.classify(ctx, req.Prompt)
	if err != nil {
		if ctx.Err() != nil {
			return g.abort(ctx, StageClassify)
		}
		fc.Advance(ctx, TierDefaultStrategy, StageClassify, err)
		decision = DefaultDecision()
	}

	var (
		tracks    []models.CandidateTrack
		strategy  = decision.Strategy
		padded    bool
		retrieved bool
	)

	// Retrieval and selection, or tier 3
	pool, used, err := g.retrieve(ctx, decision, g.poolLimit(target))
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return g.abort(ctx, StageRetrieve)
		}
		fc.Advance(ctx, TierRandomTracks, StageRetrieve, err)
	case pool.Len() == 0:
		fc.Advance(ctx, TierEmptyCatalog, StageRetrieve, ErrEmptyCatalog)
		return g.emptyCatalog(ctx, nil)
	default:
		retrieved = true
		strategy = used
		g.notify(ctx, req.SessionID, ProgressEvent{
			Stage:      ProgressRetrievalComplete,
			Strategy:   strategy.String(),
			TrackCount: pool.Len(),
		})

		sel, err := g.selectTracks(ctx, pool, req.Prompt, target)
		if err != nil {
			if ctx.Err() != nil {
				return g.abort(ctx, StageSelect)
			}
			fc.Advance(ctx, TierRandomTracks, StageSelect, err)
		} else {
			tracks, padded = sel.Tracks, sel.Padded
		}
	}

	if fc.Tier() == TierRandomTracks {
		tracks, err = g.randomTracks(ctx, target)
		if err != nil && ctx.Err() != nil {
			return g.abort(ctx, StageFallback)
		}
		if err != nil || len(tracks) == 0 {
			cause := err
			if cause == nil {
				cause = ErrEmptyCatalog
			}
			fc.Advance(ctx, TierEmptyCatalog, StageFallback, cause)
			return g.emptyCatalog(ctx, err)
		}
		strategy = StrategyRandom
		if !retrieved {
			g.notify(ctx, req.SessionID, ProgressEvent{
				Stage:      ProgressRetrievalComplete,
				Strategy:   strategy.String(),
				TrackCount: len(tracks),
			})
		}
	}

	degraded := fc.Degraded() || padded
	if padded {
		metrics.PipelinePaddedSelections.Inc()
	}
	g.notify(ctx, req.SessionID, ProgressEvent{
		Stage:      ProgressSelectionComplete,
		Strategy:   strategy.String(),
		TrackCount: len(tracks),
		Degraded:   degraded,
	})

	meta := g.synthesize(ctx, req.Prompt, tracks, strategy)
	if meta.Title == "" || meta.Description == "" {
		placeholder := PlaceholderMetadata(req.Prompt, len(tracks), strategy)
		if meta.Title == "" {
			meta.Title = placeholder.Title
		}
		if meta.Description == "" {
			meta.Description = placeholder.Description
		}
	}
	g.notify(ctx, req.SessionID, ProgressEvent{
		Stage:      ProgressSynthesisComplete,
		Strategy:   strategy.String(),
		TrackCount: len(tracks),
		Degraded:   degraded,
	})

	logger := logging.Ctx(ctx)
	if len(tracks) < target {
		metrics.PipelineShortPlaylists.Inc()
		logger.Warn().
			Int("tracks", len(tracks)).
			Int("requested", target).
			Str("prompt_hash", logging.PromptHash(req.Prompt)).
			Msg("Playlist shorter than requested; candidate pool exhausted")
	}

	outcome := "primary"
	if degraded {
		outcome = "degraded"
	}
	metrics.RecordGeneration(outcome, strategy.String())
	logger.Info().
		Str("strategy", strategy.String()).
		Str("tier", fc.Tier().String()).
		Bool("degraded", degraded).
		Int("tracks", len(tracks)).
		Int("requested", target).
		Dur("elapsed", time.Since(start)).
		Str("prompt_hash", logging.PromptHash(req.Prompt)).
		Msg("Playlist generated")

	return &PlaylistDraft{
		Tracks:       tracks,
		Title:        meta.Title,
		Description:  meta.Description,
		StrategyUsed: strategy,
		Degraded:     degraded,
		Requested:    target,
	}, nil
}

func (g *Generator) poolLimit(target int) int {
	if target > g.cfg.PoolSize {
		return target
	}
	return g.cfg.PoolSize
}

// runStage runs fn under the stage timeout and records its duration.
func runStage(ctx context.Context, stage Stage, timeout time.Duration, fn func(context.Context) error) error {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()
	err := fn(stageCtx)
	metrics.RecordStage(string(stage), time.Since(start), err)
	return err
}

func (g *Generator) classify(ctx context.Context, prompt string) (d StrategyDecision, err error) {
	err = runStage(ctx, StageClassify, g.cfg.ClassifyTimeout, func(ctx context.Context) error {
		d, err = g.classifier.Classify(ctx, prompt)
		return err
	})
	return d, err
}

func (g *Generator) retrieve(ctx context.Context, d StrategyDecision, limit int) (pool CandidatePool, used Strategy, err error) {
	err = runStage(ctx, StageRetrieve, g.cfg.RetrieveTimeout, func(ctx context.Context) error {
		pool, used, err = g.dispatcher.Retrieve(ctx, d, limit)
		return err
	})
	return pool, used, err
}

func (g *Generator) selectTracks(ctx context.Context, pool CandidatePool, prompt string, target int) (sel SelectionResult, err error) {
	err = runStage(ctx, StageSelect, g.cfg.SelectTimeout, func(ctx context.Context) error {
		sel, err = g.selector.Select(ctx, pool, prompt, target)
		return err
	})
	return sel, err
}

// randomTracks is tier 3: target random tracks straight from the catalog.
func (g *Generator) randomTracks(ctx context.Context, target int) (tracks []models.CandidateTrack, err error) {
	err = runStage(ctx, StageFallback, g.cfg.RetrieveTimeout, func(ctx context.Context) error {
		var raw []models.CandidateTrack
		raw, err = g.catalog.RandomTracks(ctx, target)
		if err != nil {
			return err
		}
		tracks = NewCandidatePool(raw).Tracks()
		if len(tracks) > target {
			tracks = tracks[:target]
		}
		return nil
	})
	return tracks, err
}

func (g *Generator) synthesize(ctx context.Context, prompt string, tracks []models.CandidateTrack, strategy Strategy) (meta Metadata) {
	_ = runStage(ctx, StageSynthesize, g.cfg.SynthesizeTimeout, func(ctx context.Context) error {
		meta = g.synthesizer.Synthesize(ctx, prompt, tracks, strategy)
		return nil
	})
	return meta
}

func (g *Generator) emptyCatalog(ctx context.Context, cause error) (*PlaylistDraft, error) {
	metrics.RecordGeneration("empty_catalog", "none")
	logging.Ctx(ctx).Error().Err(cause).Msg("No tracks available for playlist")
	return nil, &EmptyCatalogError{Err: cause}
}

func (g *Generator) abort(ctx context.Context, stage Stage) (*PlaylistDraft, error) {
	metrics.RecordGeneration("canceled", "none")
	logging.Ctx(ctx).Info().
		Err(ctx.Err()).
		Str("stage", string(stage)).
		Msg("Playlist generation aborted by caller")
	return nil, fmt.Errorf("playlist generation aborted during %s: %w", stage, ctx.Err())
}

// notify emits a progress event without ever failing or blocking the
// pipeline on notifier errors. Requests without a session are skipped.
func (g *Generator) notify(ctx context.Context, sessionID string, ev ProgressEvent) {
	if sessionID == "" {
		return
	}
	ev.SessionID = sessionID
	ev.Timestamp = time.Now().UTC()

	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Warn().
				Interface("panic", r).
				Str("stage", string(ev.Stage)).
				Msg("Progress notifier panicked")
		}
	}()
	if err := g.notifier.Notify(ctx, ev); err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("stage", string(ev.Stage)).
			Msg("Progress event dropped")
	}
}
