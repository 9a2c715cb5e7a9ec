// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package enrichment tags catalog tracks that have no genres, in the
// background, using the same text-generation client as the pipeline.
//
// A Worker owns a bounded queue of Items. Each Item carries its own attempt
// counter, so retries need no shared state. The worker:
//
//   - scans the catalog for untagged tracks every ScanInterval while idle
//   - takes up to BatchSize items per call to the Tagger
//   - waits BatchDelay between batches
//   - re-queues failed items until MaxAttempts, then drops them with a warning
//
// Nothing is persisted: a restart simply finds the same untagged tracks on
// the next scan.
package enrichment
