// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
)

// NewFromConfig builds the provider client described by cfg and wraps it in
// the standard middleware chain:
//
//	logging -> metrics -> retry -> circuit breaker -> rate limit -> provider
//
// The breaker sits inside retry so every attempt is counted and an open
// circuit ends the retry loop.
func NewFromConfig(ctx context.Context, cfg *config.LLMConfig) (Client, error) {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Provider == config.ProviderDisabled {
		logging.Warn().Msg("Text generation disabled; every playlist will use fallback selection")
		return Wrap(provider, WithLogging(), WithMetrics()), nil
	}

	mws := []Middleware{WithLogging(), WithMetrics(), Retry(cfg.MaxRetries, cfg.RetryBaseDelay)}
	if cfg.BreakerEnabled {
		mws = append(mws, CircuitBreaker(BreakerSettings{
			Name:        "llm-" + cfg.Provider,
			Timeout:     cfg.BreakerTimeout,
			MinRequests: cfg.BreakerMinCalls,
		}))
	}
	mws = append(mws, RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	logging.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Str("api_key", logging.SanitizeAPIKey(cfg.APIKey)).
		Int("max_retries", cfg.MaxRetries).
		Bool("breaker", cfg.BreakerEnabled).
		Float64("rps", cfg.RateLimitRPS).
		Msg("Text generation client configured")

	return Wrap(provider, mws...), nil
}

func newProvider(ctx context.Context, cfg *config.LLMConfig) (Client, error) {
	hc := &http.Client{Timeout: cfg.RequestTimeout}
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: float32(cfg.Temperature),
			HTTPClient:  hc,
		})
	case config.ProviderGroq, config.ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			Provider:    cfg.Provider,
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: float32(cfg.Temperature),
			HTTPClient:  hc,
		})
	case config.ProviderDisabled, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
