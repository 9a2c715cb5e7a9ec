// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package playlist implements the prompt-to-playlist generation pipeline.
//
// # Overview
//
// A request flows through four stages, each behind its own timeout:
//
//	prompt -> Classifier -> Dispatcher -> Selector -> Synthesizer -> PlaylistDraft
//
// The stages:
//
//   - Classifier asks the text-generation service for a StrategyDecision
//     (one of random, text_mood, genre, artist, audio_criteria) and validates
//     the parameters strictly.
//   - Dispatcher turns the decision into catalog lookups. A primary lookup
//     with no rows falls back to a random sample before returning.
//   - Selector asks the service to pick exactly target tracks from the pool,
//     drops ids it did not offer, and pads from the pool when short. A pool
//     no larger than target is returned unchanged without a call.
//   - Synthesizer derives a title and description. It never fails; the
//     Generator substitutes a deterministic placeholder.
//
// # Fallback
//
// FallbackController is a forward-only state machine:
//
//	TierPrimary -> TierDefaultStrategy -> TierRandomTracks -> TierEmptyCatalog
//
// Classification failure moves to TierDefaultStrategy (random decision).
// A hard retrieval error or a selection failure moves to TierRandomTracks,
// which samples target random tracks and skips the Selector. Only an empty
// catalog reaches TierEmptyCatalog, surfaced as *EmptyCatalogError. Every
// transition is logged with the prompt hash (never the prompt) and counted
// in cadence_pipeline_fallback_transitions_total.
//
// # Progress
//
// When a request carries a session id, the Generator emits at most one
// ProgressEvent per stage through a Notifier. Notification is fire-and-forget:
// errors are logged at debug level and panics are recovered.
//
// # Thread Safety
//
// Generator holds no per-request state and is safe for concurrent use.
// Nothing is cached between requests.
package playlist
