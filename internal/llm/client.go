// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package llm talks to the external text-generation service.
//
// A Client sends one system instruction plus one user instruction and
// returns the raw text of the reply. Replies are prose that should contain a
// single JSON value; callers run them through DecodeJSON rather than
// trusting them.
//
// Cross-cutting behaviour is layered with Middleware:
//
//	client := llm.Wrap(base,
//	    llm.WithLogging(),
//	    llm.WithMetrics(),
//	    llm.Retry(3, 500*time.Millisecond),
//	    llm.CircuitBreaker(llm.BreakerSettings{Name: "llm-gemini"}),
//	    llm.RateLimit(5, 10),
//	)
package llm

import (
	"context"
	"errors"
)

// Operation names a call shape. It is used for log fields and metric labels.
type Operation string

const (
	OpClassify   Operation = "classify"
	OpSelect     Operation = "select"
	OpSynthesize Operation = "synthesize"
	OpEnrich     Operation = "enrich"
)

// Request is a single request/response exchange.
type Request struct {
	Operation Operation
	System    string
	User      string
}

// Client is the text-generation service.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

var (
	// ErrInvalidJSON is returned when no JSON value can be extracted from a reply.
	ErrInvalidJSON = errors.New("llm: invalid JSON from model")

	// ErrNoContent is returned when the service answers with no candidates or text.
	ErrNoContent = errors.New("llm: empty response from model")

	// ErrDisabled is returned by the disabled client for every call.
	ErrDisabled = errors.New("llm: text generation is disabled")
)

// PermanentError marks a failure that retrying cannot fix (bad request,
// bad credentials, context window exceeded).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// NewPermanentError wraps err as permanent.
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Disabled is a Client that always fails. It runs the pipeline with
// no provider configured, so every request takes the fallback tiers.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Generate(context.Context, Request) (string, error) {
	return "", NewPermanentError(ErrDisabled)
}

func (Disabled) Close() error { return nil }
