// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package main

import (
	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/enrichment"
	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/supervisor"
)

// initEnrichment starts the genre tagger in the background layer.
// Returns nil when enrichment is disabled or no model is configured.
func initEnrichment(cfg *config.Config, client llm.Client, store enrichment.Store, tree *supervisor.SupervisorTree) *enrichment.Worker {
	if !cfg.Enrichment.Enabled {
		logging.Info().Msg("Genre enrichment disabled (ENRICHMENT_ENABLED=false)")
		return nil
	}
	if !cfg.LLMEnabled() {
		logging.Warn().Msg("Genre enrichment requested but text generation is disabled; worker not started")
		return nil
	}

	worker := enrichment.NewWorker(cfg.Enrichment, store, enrichment.NewLLMTagger(client))
	tree.AddBackgroundService(worker)

	logging.Info().
		Int("batch_size", cfg.Enrichment.BatchSize).
		Dur("scan_interval", cfg.Enrichment.ScanInterval).
		Int("max_attempts", cfg.Enrichment.MaxAttempts).
		Msg("Genre enrichment worker added to supervisor tree")
	return worker
}
