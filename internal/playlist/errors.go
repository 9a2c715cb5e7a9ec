// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"errors"
	"fmt"
)

// Stage names a pipeline step in errors, logs and metrics.
type Stage string

const (
	StageClassify   Stage = "classify"
	StageRetrieve   Stage = "retrieve"
	StageSelect     Stage = "select"
	StageSynthesize Stage = "synthesize"
	StageFallback   Stage = "fallback"
)

// ErrEmptyCatalog matches any *EmptyCatalogError via errors.Is.
var ErrEmptyCatalog = errors.New("no tracks available")

// ClassificationError reports that no valid StrategyDecision could be obtained.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	return stageMessage("classification failed", e.Reason, e.Err)
}
func (e *ClassificationError) Unwrap() error { return e.Err }
func (e *ClassificationError) Stage() Stage  { return StageClassify }

// RetrievalError reports a hard catalog fault. An empty result is not one.
type RetrievalError struct {
	Strategy Strategy
	Err      error
}

func (e *RetrievalError) Error() string {
	return stageMessage("retrieval failed", e.Strategy.String(), e.Err)
}
func (e *RetrievalError) Unwrap() error { return e.Err }
func (e *RetrievalError) Stage() Stage  { return StageRetrieve }

// SelectionError reports an unusable selection response.
type SelectionError struct {
	Reason  string
	Dropped int // ids discarded as unknown or duplicate
	Err     error
}

func (e *SelectionError) Error() string {
	return stageMessage("selection failed", e.Reason, e.Err)
}
func (e *SelectionError) Unwrap() error { return e.Err }
func (e *SelectionError) Stage() Stage  { return StageSelect }

// EmptyCatalogError is the pipeline's only terminal error: even a random
// sample produced no tracks. Err carries the tier-3 catalog fault, if any.
type EmptyCatalogError struct {
	Err error
}

func (e *EmptyCatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrEmptyCatalog, e.Err)
	}
	return ErrEmptyCatalog.Error()
}
func (e *EmptyCatalogError) Unwrap() error        { return e.Err }
func (e *EmptyCatalogError) Stage() Stage         { return StageFallback }
func (e *EmptyCatalogError) Is(target error) bool { return target == ErrEmptyCatalog }

func stageMessage(prefix, reason string, err error) string {
	switch {
	case reason != "" && err != nil:
		return fmt.Sprintf("%s: %s: %v", prefix, reason, err)
	case err != nil:
		return fmt.Sprintf("%s: %v", prefix, err)
	case reason != "":
		return prefix + ": " + reason
	default:
		return prefix
	}
}

// stageOf returns the stage recorded on a pipeline error, or fallback.
func stageOf(err error) Stage {
	var s interface{ Stage() Stage }
	if errors.As(err, &s) {
		return s.Stage()
	}
	return StageFallback
}
