// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"context"
	"time"
)

// ProgressStage is a coarse pipeline milestone reported to the client.
type ProgressStage string

const (
	ProgressAnalysisStarted   ProgressStage = "analysis_started"
	ProgressRetrievalComplete ProgressStage = "retrieval_complete"
	ProgressSelectionComplete ProgressStage = "selection_complete"
	ProgressSynthesisComplete ProgressStage = "synthesis_complete"
)

// ProgressEvent is one milestone for one session.
type ProgressEvent struct {
	SessionID  string        `json:"session_id"`
	Stage      ProgressStage `json:"stage"`
	Strategy   string        `json:"strategy,omitempty"`
	TrackCount int           `json:"track_count,omitempty"`
	Degraded   bool          `json:"degraded,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Notifier receives progress events. Implementations must not block; the
// Generator ignores their errors beyond a debug log.
type Notifier interface {
	Notify(ctx context.Context, ev ProgressEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev ProgressEvent) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, ev ProgressEvent) error { return f(ctx, ev) }

// noopNotifier drops every event.
type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, ProgressEvent) error { return nil }
