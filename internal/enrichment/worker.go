// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/models"
)

// Store is the catalog access the worker needs. *database.DB implements it.
type Store interface {
	TracksMissingGenres(ctx context.Context, limit int) ([]models.CandidateTrack, error)
	SetTrackGenres(ctx context.Context, trackID string, genres []string) error
	MarkEnrichmentExhausted(ctx context.Context, trackID string, attempts int) error
}

// Item is one queued track. Attempts counts failed tag attempts so far.
type Item struct {
	Track    models.CandidateTrack
	Attempts int
}

// Worker defaults, used when the config value is zero.
const (
	DefaultQueueSize    = 500
	DefaultBatchSize    = 20
	DefaultBatchDelay   = 2 * time.Second
	DefaultMaxAttempts  = 3
	DefaultScanInterval = 10 * time.Minute
	DefaultScanLimit    = 100
)

// Worker is the single owner of the enrichment queue.
type Worker struct {
	cfg    config.EnrichmentConfig
	store  Store
	tagger Tagger
	queue  chan Item
	logger zerolog.Logger

	// ids dropped after MaxAttempts; covers a failed exhausted mark
	exhausted map[string]struct{}
}

// NewWorker creates a worker. Zero sizes, limits and intervals take the
// defaults; a zero BatchDelay means batches run back to back.
func NewWorker(cfg config.EnrichmentConfig, store Store, tagger Tagger) *Worker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = DefaultBatchDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = DefaultScanInterval
	}
	if cfg.ScanLimit <= 0 {
		cfg.ScanLimit = DefaultScanLimit
	}
	return &Worker{
		cfg:       cfg,
		store:     store,
		tagger:    tagger,
		queue:     make(chan Item, cfg.QueueSize),
		logger:    logging.WithComponent("enrichment"),
		exhausted: make(map[string]struct{}),
	}
}

// Enqueue adds a track without blocking. It returns false when the queue
// is full.
func (w *Worker) Enqueue(track models.CandidateTrack) bool {
	return w.offer(Item{Track: track})
}

func (w *Worker) offer(item Item) bool {
	select {
	case w.queue <- item:
		metrics.EnrichmentQueueDepth.Set(float64(len(w.queue)))
		return true
	default:
		metrics.EnrichmentRejected.Inc()
		return false
	}
}

// QueueDepth returns the number of queued items.
func (w *Worker) QueueDepth() int { return len(w.queue) }

// String names the service in supervisor logs.
func (w *Worker) String() string { return "enrichment-worker" }

// Serve runs scans and batches until ctx is canceled. It implements
// suture.Service.
func (w *Worker) Serve(ctx context.Context) error {
	w.logger.Info().
		Int("batch_size", w.cfg.BatchSize).
		Dur("scan_interval", w.cfg.ScanInterval).
		Msg("Enrichment worker started")

	w.scan(ctx)
	ticker := time.NewTicker(w.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.scan(ctx)
		case first := <-w.queue:
			w.process(ctx, w.collect(first))
			if !sleepCtx(ctx, w.cfg.BatchDelay) {
				return ctx.Err()
			}
		}
	}
}

// scan enqueues untagged tracks. It only runs while the queue is empty so
// a track is never queued twice.
func (w *Worker) scan(ctx context.Context) {
	if len(w.queue) > 0 {
		return
	}
	tracks, err := w.store.TracksMissingGenres(ctx, w.cfg.ScanLimit)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn().Err(err).Msg("Enrichment scan failed")
		}
		return
	}
	queued := 0
	for i := range tracks {
		if _, gone := w.exhausted[tracks[i].ID]; gone {
			continue
		}
		if !w.offer(Item{Track: tracks[i]}) {
			break
		}
		queued++
	}
	if queued > 0 {
		w.logger.Debug().Int("queued", queued).Msg("Enrichment scan queued tracks")
	}
}

// collect drains up to BatchSize items without blocking.
func (w *Worker) collect(first Item) []Item {
	batch := []Item{first}
	for len(batch) < w.cfg.BatchSize {
		select {
		case item := <-w.queue:
			batch = append(batch, item)
		default:
			metrics.EnrichmentQueueDepth.Set(float64(len(w.queue)))
			return batch
		}
	}
	metrics.EnrichmentQueueDepth.Set(float64(len(w.queue)))
	return batch
}

func (w *Worker) process(ctx context.Context, batch []Item) {
	tracks := make([]models.CandidateTrack, len(batch))
	for i := range batch {
		tracks[i] = batch[i].Track
	}

	tags, err := w.tagger.Tag(ctx, tracks)
	if err != nil {
		w.logger.Warn().Err(err).Int("batch", len(batch)).Msg("Enrichment batch failed")
		for _, item := range batch {
			w.retry(ctx, item, err)
		}
		return
	}

	for _, item := range batch {
		genres, ok := tags[item.Track.ID]
		if !ok {
			w.retry(ctx, item, fmt.Errorf("no genres returned"))
			continue
		}
		if err := w.store.SetTrackGenres(ctx, item.Track.ID, genres); err != nil {
			w.retry(ctx, item, err)
			continue
		}
		metrics.EnrichmentProcessed.WithLabelValues("success").Inc()
	}
}

// retry re-queues item with one more attempt, or drops it once
// MaxAttempts is reached. A dropped track is marked exhausted so later
// scans skip it.
func (w *Worker) retry(ctx context.Context, item Item, cause error) {
	item.Attempts++
	if item.Attempts >= w.cfg.MaxAttempts {
		metrics.EnrichmentProcessed.WithLabelValues("dropped").Inc()
		w.logger.Warn().
			Err(cause).
			Str("track_id", item.Track.ID).
			Int("attempts", item.Attempts).
			Msg("Dropping track after repeated enrichment failures")
		w.exhausted[item.Track.ID] = struct{}{}
		if err := w.store.MarkEnrichmentExhausted(ctx, item.Track.ID, item.Attempts); err != nil && ctx.Err() == nil {
			w.logger.Warn().Err(err).Str("track_id", item.Track.ID).Msg("Failed to record exhausted track")
		}
		return
	}
	metrics.EnrichmentProcessed.WithLabelValues("retry").Inc()
	if !w.offer(item) {
		w.logger.Debug().Str("track_id", item.Track.ID).Msg("Enrichment queue full, retry discarded")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
