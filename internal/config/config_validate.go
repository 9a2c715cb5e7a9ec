// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	minRateLimitWindow = time.Second
	maxRateLimitWindow = time.Hour
	maxRateLimitReqs   = 10000

	minStageTimeout = 100 * time.Millisecond
	maxStageTimeout = 5 * time.Minute
)

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	validLogFormats = []string{"json", "console"}
	validDrivers    = []string{"duckdb", "postgres"}
	validProviders  = []string{ProviderGemini, ProviderGroq, ProviderOpenAI, ProviderDisabled}
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !contains(validDrivers, c.Database.Driver) {
		return fmt.Errorf("DB_DRIVER must be one of %v, got %q", validDrivers, c.Database.Driver)
	}
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=duckdb")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !contains(validProviders, c.LLM.Provider) {
		return fmt.Errorf("LLM_PROVIDER must be one of %v, got %q", validProviders, c.LLM.Provider)
	}
	if c.LLM.Provider == ProviderDisabled {
		return nil
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required when LLM_PROVIDER=%s (use LLM_PROVIDER=disabled to run without one)", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.LLM.BaseURL != "" {
		u, err := url.Parse(c.LLM.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("LLM_BASE_URL must be an http(s) URL, got %q", c.LLM.BaseURL)
		}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("LLM_MAX_RETRIES must be at least 1")
	}
	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("LLM_REQUEST_TIMEOUT must be positive")
	}
	if c.LLM.RateLimitRPS < 0 {
		return fmt.Errorf("LLM_RATE_LIMIT_RPS must be >= 0 (0 disables limiting)")
	}
	if c.LLM.RateLimitRPS > 0 && c.LLM.RateLimitBurst < 1 {
		return fmt.Errorf("LLM_RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	p := c.Pipeline
	if p.MaxTargetSize < 1 {
		return fmt.Errorf("PLAYLIST_MAX_SIZE must be at least 1")
	}
	if p.DefaultTargetSize < 1 || p.DefaultTargetSize > p.MaxTargetSize {
		return fmt.Errorf("PLAYLIST_DEFAULT_SIZE must be between 1 and PLAYLIST_MAX_SIZE (%d)", p.MaxTargetSize)
	}
	if p.PoolSize < 1 {
		return fmt.Errorf("PIPELINE_POOL_SIZE must be at least 1")
	}
	if p.SelectionWindow < 1 {
		return fmt.Errorf("PIPELINE_SELECTION_WINDOW must be at least 1")
	}
	timeouts := map[string]time.Duration{
		"PIPELINE_CLASSIFY_TIMEOUT":   p.ClassifyTimeout,
		"PIPELINE_RETRIEVE_TIMEOUT":   p.RetrieveTimeout,
		"PIPELINE_SELECT_TIMEOUT":     p.SelectTimeout,
		"PIPELINE_SYNTHESIZE_TIMEOUT": p.SynthesizeTimeout,
	}
	for name, d := range timeouts {
		if d < minStageTimeout || d > maxStageTimeout {
			return fmt.Errorf("%s must be between %v and %v, got %v", name, minStageTimeout, maxStageTimeout, d)
		}
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	e := c.Enrichment
	if !e.Enabled {
		return nil
	}
	if e.QueueSize < 1 {
		return fmt.Errorf("ENRICHMENT_QUEUE_SIZE must be at least 1")
	}
	if e.BatchSize < 1 || e.BatchSize > e.QueueSize {
		return fmt.Errorf("ENRICHMENT_BATCH_SIZE must be between 1 and ENRICHMENT_QUEUE_SIZE (%d)", e.QueueSize)
	}
	if e.MaxAttempts < 1 {
		return fmt.Errorf("ENRICHMENT_MAX_ATTEMPTS must be at least 1")
	}
	if e.ScanInterval < time.Second {
		return fmt.Errorf("ENRICHMENT_SCAN_INTERVAL must be at least 1s")
	}
	if e.BatchDelay < 0 {
		return fmt.Errorf("ENRICHMENT_BATCH_DELAY must be >= 0")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.BufferSize < 1 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be at least 1")
	}
	n := c.Events.NATS
	if !n.Enabled {
		return nil
	}
	if n.Embedded {
		if n.Port < 1 || n.Port > 65535 {
			return fmt.Errorf("NATS_PORT must be between 1 and 65535")
		}
		return nil
	}
	if !strings.HasPrefix(n.URL, "nats://") && !strings.HasPrefix(n.URL, "tls://") {
		return fmt.Errorf("NATS_URL must start with nats:// or tls://, got %q", n.URL)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > maxRateLimitReqs {
		return fmt.Errorf("RATE_LIMIT_REQS must be between 1 and %d", maxRateLimitReqs)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}
	if !contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("LOG_FORMAT must be one of %v, got %q", validLogFormats, c.Logging.Format)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
