// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package config loads Cadence configuration.
//
// Sources are layered with koanf, lowest priority first:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/cadence/config.yaml)
//  3. Environment variables (LLM_API_KEY, HTTP_PORT, ...)
//
// The result is validated before it is returned, so callers can trust every
// field of a loaded *Config.
package config

import (
	"strings"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	LLM        LLMConfig        `koanf:"llm"`
	Pipeline   PipelineConfig   `koanf:"pipeline"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Events     EventsConfig     `koanf:"events"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"` // per-request budget for /generate, covers every pipeline stage
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig selects and tunes the catalog store.
type DatabaseConfig struct {
	Driver       string `koanf:"driver"` // duckdb or postgres
	Path         string `koanf:"path"`   // duckdb file, ":memory:" allowed
	DSN          string `koanf:"dsn"`    // postgres connection string
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	SeedDemoData bool   `koanf:"seed_demo_data"`
}

// LLMConfig configures the text-generation service and its middleware chain.
type LLMConfig struct {
	Provider        string        `koanf:"provider"` // gemini, groq, openai, disabled
	Model           string        `koanf:"model"`
	APIKey          string        `koanf:"api_key"`
	BaseURL         string        `koanf:"base_url"`
	Temperature     float64       `koanf:"temperature"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	MaxRetries      int           `koanf:"max_retries"`
	RetryBaseDelay  time.Duration `koanf:"retry_base_delay"`
	RateLimitRPS    float64       `koanf:"rate_limit_rps"`
	RateLimitBurst  int           `koanf:"rate_limit_burst"`
	BreakerEnabled  bool          `koanf:"breaker_enabled"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	BreakerMinCalls uint32        `koanf:"breaker_min_calls"`
}

// PipelineConfig bounds the generation pipeline.
type PipelineConfig struct {
	DefaultTargetSize int           `koanf:"default_target_size"`
	MaxTargetSize     int           `koanf:"max_target_size"`
	PoolSize          int           `koanf:"pool_size"`
	SelectionWindow   int           `koanf:"selection_window"`
	ClassifyTimeout   time.Duration `koanf:"classify_timeout"`
	RetrieveTimeout   time.Duration `koanf:"retrieve_timeout"`
	SelectTimeout     time.Duration `koanf:"select_timeout"`
	SynthesizeTimeout time.Duration `koanf:"synthesize_timeout"`
}

// EnrichmentConfig tunes the background genre tagger.
type EnrichmentConfig struct {
	Enabled      bool          `koanf:"enabled"`
	QueueSize    int           `koanf:"queue_size"`
	BatchSize    int           `koanf:"batch_size"`
	BatchDelay   time.Duration `koanf:"batch_delay"`
	MaxAttempts  int           `koanf:"max_attempts"`
	ScanInterval time.Duration `koanf:"scan_interval"`
	ScanLimit    int           `koanf:"scan_limit"`
}

// EventsConfig configures the progress event bus.
type EventsConfig struct {
	BufferSize int        `koanf:"buffer_size"`
	NATS       NATSConfig `koanf:"nats"`
}

// NATSConfig enables cross-instance progress delivery over NATS.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	Embedded       bool          `koanf:"embedded"`
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
	CloseTimeout   time.Duration `koanf:"close_timeout"`
	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads, merges and validates configuration from all sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// LLMEnabled reports whether a real text-generation provider is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Provider != "" && c.LLM.Provider != ProviderDisabled
}
