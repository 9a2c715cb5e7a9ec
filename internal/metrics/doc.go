// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are package-level promauto values so any package can record
// without plumbing a registry. Label values are always drawn from small
// fixed sets (stage names, strategy names, provider names); never use a
// prompt, session ID or track ID as a label.
//
// Families:
//
//   - cadence_api_*           HTTP request count, latency, in-flight
//   - cadence_pipeline_*      stage latency, generations, fallback transitions, padding
//   - cadence_llm_*           text-generation calls by provider/operation/result
//   - cadence_circuit_breaker_* breaker state and transitions
//   - cadence_catalog_*       catalog query latency and errors
//   - cadence_websocket_*     connections and delivered progress events
//   - cadence_events_*        progress events published/dropped
//   - cadence_enrichment_*    queue depth, processed and dropped items
package metrics
