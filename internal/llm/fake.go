// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package llm

import (
	"context"
	"sync"
	"sync/atomic"
)

// Responder produces the reply for one scripted call.
type Responder func(ctx context.Context, req Request) (string, error)

// Reply returns a Responder that always answers text.
func Reply(text string) Responder {
	return func(context.Context, Request) (string, error) { return text, nil }
}

// Fail returns a Responder that always fails with err.
func Fail(err error) Responder {
	return func(context.Context, Request) (string, error) { return "", err }
}

// Scripted is an in-memory Client for tests and local development. Each
// operation has its own Responder; operations without one fail with
// ErrDisabled. Calls are counted per operation.
type Scripted struct {
	mu        sync.RWMutex
	responses map[Operation]Responder
	calls     sync.Map // Operation -> *atomic.Int64
	total     atomic.Int64
}

// NewScripted returns a Scripted client with no responses configured.
func NewScripted() *Scripted {
	return &Scripted{responses: make(map[Operation]Responder)}
}

// On sets the responder for op and returns the client for chaining.
func (s *Scripted) On(op Operation, r Responder) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[op] = r
	return s
}

func (s *Scripted) Name() string { return "scripted" }
func (s *Scripted) Close() error { return nil }

// Generate dispatches to the responder registered for req.Operation.
func (s *Scripted) Generate(ctx context.Context, req Request) (string, error) {
	s.total.Add(1)
	c, _ := s.calls.LoadOrStore(req.Operation, new(atomic.Int64))
	c.(*atomic.Int64).Add(1)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	r, ok := s.responses[req.Operation]
	s.mu.RUnlock()
	if !ok {
		return "", ErrDisabled
	}
	return r(ctx, req)
}

// Calls returns how many times op was requested.
func (s *Scripted) Calls(op Operation) int64 {
	c, ok := s.calls.Load(op)
	if !ok {
		return 0
	}
	return c.(*atomic.Int64).Load()
}

// TotalCalls returns the number of Generate calls across all operations.
func (s *Scripted) TotalCalls() int64 {
	return s.total.Load()
}
