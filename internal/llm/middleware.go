// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package llm

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
)

// Middleware decorates a Client.
type Middleware func(Client) Client

// Wrap applies middlewares so that the first one listed is outermost:
// Wrap(c, A, B) == A(B(c)).
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// base forwards Name and Close so decorators only implement Generate.
type base struct{ next Client }

func (b base) Name() string { return b.next.Name() }
func (b base) Close() error { return b.next.Close() }

// ---------------------------------------------------------------------------
// Logging

// WithLogging logs each call at debug level and failures at warn level.
// Only sizes are logged; prompts and replies are user content.
func WithLogging() Middleware {
	return func(next Client) Client { return &logged{base{next}} }
}

type logged struct{ base }

func (l *logged) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := l.next.Generate(ctx, req)
	logger := logging.Ctx(ctx)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("provider", l.next.Name()).
			Str("operation", string(req.Operation)).
			Dur("elapsed", time.Since(start)).
			Bool("permanent", IsPermanent(err)).
			Msg("Text generation failed")
		return "", err
	}
	logger.Debug().
		Str("provider", l.next.Name()).
		Str("operation", string(req.Operation)).
		Int("request_bytes", len(req.System)+len(req.User)).
		Int("reply_bytes", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("Text generation completed")
	return out, nil
}

// ---------------------------------------------------------------------------
// Metrics

// WithMetrics records request count and latency per provider and operation.
func WithMetrics() Middleware {
	return func(next Client) Client { return &measured{base{next}} }
}

type measured struct{ base }

func (m *measured) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := m.next.Generate(ctx, req)
	metrics.RecordLLMRequest(m.next.Name(), string(req.Operation), time.Since(start), err)
	return out, err
}

// ---------------------------------------------------------------------------
// Retry

// Retry retries up to maxAttempts with exponential backoff from baseDelay.
// Permanent errors, an open circuit and context cancellation stop it at once.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Client) Client {
		return &retrying{base: base{next}, max: maxAttempts, delay: baseDelay}
	}
}

type retrying struct {
	base
	max   int
	delay time.Duration
}

func (r *retrying) Generate(ctx context.Context, req Request) (string, error) {
	var last error
	for attempt := 0; attempt < r.max; attempt++ {
		if attempt > 0 {
			metrics.LLMRetries.WithLabelValues(string(req.Operation)).Inc()
			timer := time.NewTimer(r.delay * time.Duration(1<<(attempt-1)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		out, err := r.next.Generate(ctx, req)
		if err == nil {
			return out, nil
		}
		last = err
		if !retryable(ctx, err) {
			return "", err
		}
	}
	return "", last
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || IsPermanent(err) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Rate limiting

// RateLimit blocks each call until the token bucket allows it. rps <= 0
// disables limiting. The wait honours ctx cancellation.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		return &rateLimited{base: base{next}, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	base
	limiter *rate.Limiter
}

func (r *rateLimited) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	metrics.LLMRateLimitWait.Observe(time.Since(start).Seconds())
	return r.next.Generate(ctx, req)
}
