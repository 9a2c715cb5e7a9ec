// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cadence/config.yaml",
	"/etc/cadence/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// LLM provider names.
const (
	ProviderGemini   = "gemini"
	ProviderGroq     = "groq"
	ProviderOpenAI   = "openai"
	ProviderDisabled = "disabled"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8420,
			Host:            "0.0.0.0",
			Timeout:         90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "/data/cadence.duckdb",
			DSN:          "",
			MaxMemory:    "1GB",
			Threads:      0, // runtime.NumCPU()
			MaxOpenConns: 0, // runtime.NumCPU()
			SeedDemoData: false,
		},
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			Model:           "gemini-2.0-flash",
			APIKey:          "",
			BaseURL:         "",
			Temperature:     0.7,
			RequestTimeout:  30 * time.Second,
			MaxRetries:      3,
			RetryBaseDelay:  500 * time.Millisecond,
			RateLimitRPS:    5,
			RateLimitBurst:  10,
			BreakerEnabled:  true,
			BreakerTimeout:  time.Minute,
			BreakerMinCalls: 10,
		},
		Pipeline: PipelineConfig{
			DefaultTargetSize: 24,
			MaxTargetSize:     100,
			PoolSize:          50,
			SelectionWindow:   100,
			ClassifyTimeout:   20 * time.Second,
			RetrieveTimeout:   10 * time.Second,
			SelectTimeout:     30 * time.Second,
			SynthesizeTimeout: 20 * time.Second,
		},
		Enrichment: EnrichmentConfig{
			Enabled:      false,
			QueueSize:    256,
			BatchSize:    10,
			BatchDelay:   2 * time.Second,
			MaxAttempts:  3,
			ScanInterval: 10 * time.Minute,
			ScanLimit:    100,
		},
		Events: EventsConfig{
			BufferSize: 256,
			NATS: NATSConfig{
				Enabled:        false,
				URL:            "nats://127.0.0.1:4222",
				Embedded:       false,
				Host:           "127.0.0.1",
				Port:           4222,
				MaxReconnects:  -1,
				ReconnectWait:  2 * time.Second,
				CloseTimeout:   10 * time.Second,
				AckWaitTimeout: 30 * time.Second,
			},
		},
		Security: SecurityConfig{
			RateLimitReqs:     30,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then the environment.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyProviderDefaults fills the model and endpoint for providers other
// than the default one when the operator only switched LLM_PROVIDER.
func (c *Config) applyProviderDefaults() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderGroq:
		if c.LLM.Model == "" || strings.HasPrefix(c.LLM.Model, "gemini") {
			c.LLM.Model = "llama-3.3-70b-versatile"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "https://api.groq.com/openai/v1"
		}
	case ProviderOpenAI:
		if c.LLM.Model == "" || strings.HasPrefix(c.LLM.Model, "gemini") {
			c.LLM.Model = "gpt-4o-mini"
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "https://api.openai.com/v1"
		}
	}
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths may arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Variables that are not listed are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Database
	"db_driver":         "database.driver",
	"duckdb_path":       "database.path",
	"database_url":      "database.dsn",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"db_max_open_conns": "database.max_open_conns",
	"seed_demo_data":    "database.seed_demo_data",

	// LLM
	"llm_provider":          "llm.provider",
	"llm_model":             "llm.model",
	"llm_api_key":           "llm.api_key",
	"llm_base_url":          "llm.base_url",
	"llm_temperature":       "llm.temperature",
	"llm_request_timeout":   "llm.request_timeout",
	"llm_max_retries":       "llm.max_retries",
	"llm_retry_base_delay":  "llm.retry_base_delay",
	"llm_rate_limit_rps":    "llm.rate_limit_rps",
	"llm_rate_limit_burst":  "llm.rate_limit_burst",
	"llm_breaker_enabled":   "llm.breaker_enabled",
	"llm_breaker_timeout":   "llm.breaker_timeout",
	"llm_breaker_min_calls": "llm.breaker_min_calls",

	// Pipeline
	"playlist_default_size":       "pipeline.default_target_size",
	"playlist_max_size":           "pipeline.max_target_size",
	"pipeline_pool_size":          "pipeline.pool_size",
	"pipeline_selection_window":   "pipeline.selection_window",
	"pipeline_classify_timeout":   "pipeline.classify_timeout",
	"pipeline_retrieve_timeout":   "pipeline.retrieve_timeout",
	"pipeline_select_timeout":     "pipeline.select_timeout",
	"pipeline_synthesize_timeout": "pipeline.synthesize_timeout",

	// Enrichment
	"enrichment_enabled":       "enrichment.enabled",
	"enrichment_queue_size":    "enrichment.queue_size",
	"enrichment_batch_size":    "enrichment.batch_size",
	"enrichment_batch_delay":   "enrichment.batch_delay",
	"enrichment_max_attempts":  "enrichment.max_attempts",
	"enrichment_scan_interval": "enrichment.scan_interval",
	"enrichment_scan_limit":    "enrichment.scan_limit",

	// Events
	"events_buffer_size": "events.buffer_size",
	"nats_enabled":       "events.nats.enabled",
	"nats_url":           "events.nats.url",
	"nats_embedded":      "events.nats.embedded",
	"nats_host":          "events.nats.host",
	"nats_port":          "events.nats.port",

	// Security
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":       "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
