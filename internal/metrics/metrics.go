// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// llmBuckets cover fast cached completions up to slow large-window selections.
var llmBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}

var (
	// API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: llmBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadence_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Pipeline

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_pipeline_stage_duration_seconds",
			Help:    "Duration of each generation pipeline stage",
			Buckets: llmBuckets,
		},
		[]string{"stage", "result"},
	)

	PipelineGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_pipeline_generations_total",
			Help: "Playlist generations by outcome and strategy used",
		},
		[]string{"outcome", "strategy"}, // outcome: primary, degraded, empty_catalog, canceled
	)

	PipelineFallbackTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_pipeline_fallback_transitions_total",
			Help: "Fallback tier transitions",
		},
		[]string{"from", "to", "stage"},
	)

	PipelinePaddedSelections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_pipeline_padded_selections_total",
			Help: "Selections that were padded from the pool after dropping invalid ids",
		},
	)

	PipelineShortPlaylists = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_pipeline_short_playlists_total",
			Help: "Playlists returned with fewer tracks than requested",
		},
	)

	PipelineDroppedSelectionIDs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_pipeline_dropped_selection_ids_total",
			Help: "Ids returned by the selector that were not in the candidate pool or were duplicates",
		},
	)

	// LLM

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_llm_requests_total",
			Help: "Text-generation requests by provider, operation and result",
		},
		[]string{"provider", "operation", "result"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_llm_request_duration_seconds",
			Help:    "Text-generation request latency",
			Buckets: llmBuckets,
		},
		[]string{"provider", "operation"},
	)

	LLMRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_llm_retries_total",
			Help: "Text-generation retry attempts",
		},
		[]string{"operation"},
	)

	LLMRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cadence_llm_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the text-generation rate limiter",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)

	// Circuit breaker

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cadence_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Catalog

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cadence_catalog_query_duration_seconds",
			Help:    "Catalog query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_catalog_query_errors_total",
			Help: "Catalog query failures",
		},
		[]string{"query", "error_type"},
	)

	// WebSocket

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadence_websocket_connections",
			Help: "Currently connected WebSocket clients",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_websocket_messages_sent_total",
			Help: "Progress messages delivered to WebSocket clients",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_websocket_messages_dropped_total",
			Help: "Progress messages dropped because the hub or a client buffer was full",
		},
	)

	// Events

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_events_published_total",
			Help: "Progress events published to the event bus",
		},
		[]string{"stage"},
	)

	EventsPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_events_publish_failures_total",
			Help: "Progress events that could not be published",
		},
	)

	// Enrichment

	EnrichmentQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cadence_enrichment_queue_depth",
			Help: "Tracks waiting for genre enrichment",
		},
	)

	EnrichmentProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cadence_enrichment_processed_total",
			Help: "Enrichment attempts by result",
		},
		[]string{"result"}, // success, retry, dropped
	)

	EnrichmentRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cadence_enrichment_rejected_total",
			Help: "Tracks not enqueued because the queue was full",
		},
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStage records the duration of one pipeline stage.
func RecordStage(stage string, duration time.Duration, err error) {
	PipelineStageDuration.WithLabelValues(stage, resultLabel(err)).Observe(duration.Seconds())
}

// RecordGeneration records a finished generation.
func RecordGeneration(outcome, strategy string) {
	PipelineGenerations.WithLabelValues(outcome, strategy).Inc()
}

// RecordFallbackTransition records a forward move between fallback tiers.
func RecordFallbackTransition(from, to, stage string) {
	PipelineFallbackTransitions.WithLabelValues(from, to, stage).Inc()
}

// RecordLLMRequest records a completed text-generation call.
func RecordLLMRequest(provider, operation string, duration time.Duration, err error) {
	LLMRequestsTotal.WithLabelValues(provider, operation, resultLabel(err)).Inc()
	LLMRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordCatalogQuery records a catalog query.
func RecordCatalogQuery(query string, duration time.Duration, err error) {
	CatalogQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
	if err != nil {
		CatalogQueryErrors.WithLabelValues(query, errorType(err)).Inc()
	}
}

// resultLabel maps an error to success, canceled, timeout or error.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func errorType(err error) string {
	if r := resultLabel(err); r != "error" {
		return r
	}
	return "query"
}
