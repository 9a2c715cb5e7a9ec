// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package main is the entry point for the Cadence server.

Cadence turns a free-text prompt ("rainy sunday morning jazz") into an
ordered playlist drawn from a local track catalog. A generation request
runs four stages: the prompt is classified into a retrieval strategy,
candidates are retrieved from the catalog, a language model picks and
orders the tracks, and a title and description are synthesized. Progress
for each stage is pushed to the caller's WebSocket session.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("cadence")
	├── EventsSupervisor ("events-layer")
	│   ├── WebSocket Hub (session-scoped progress delivery)
	│   ├── Progress Publisher (bounded queue onto the event bus)
	│   └── Progress Router (event bus -> WebSocket hub)
	├── BackgroundSupervisor ("background-layer")
	│   └── Enrichment Worker (optional genre tagging)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional config file and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB (default) or PostgreSQL catalog store
 4. Text generation: provider client wrapped in retry, breaker and rate limit
 5. Event bus: Watermill over Go channels, or NATS when enabled
 6. Playlist generator: classify, retrieve, select and synthesize stages
 7. Enrichment worker: LLM genre tagging for untagged tracks
 8. Supervisor tree and HTTP server

# Configuration

Core environment variables:

	HTTP_PORT=8420               # HTTP server port
	HTTP_TIMEOUT=90s             # budget for a whole generation request
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	DB_DRIVER=duckdb             # duckdb or postgres
	DUCKDB_PATH=/data/cadence.duckdb
	DATABASE_URL=postgres://...  # when DB_DRIVER=postgres
	SEED_DEMO_DATA=false         # load the demo catalog on startup

	LLM_PROVIDER=gemini          # gemini, groq, openai or disabled
	LLM_API_KEY=<key>
	LLM_MODEL=<model>

	ENRICHMENT_ENABLED=false
	NATS_ENABLED=false
	NATS_EMBEDDED=true

With LLM_PROVIDER=disabled every request still succeeds: classification
falls back to random retrieval and selection takes the first candidates.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections and drains in-flight requests
 2. Closes WebSocket sessions
 3. Stops the enrichment worker and the progress router
 4. Closes the event bus and the database
 5. Reports any services that failed to stop

# Usage Examples

Local development with the demo catalog and no model:

	export LLM_PROVIDER=disabled SEED_DEMO_DATA=true LOG_FORMAT=console
	go run ./cmd/server

Gemini with background tagging:

	export LLM_PROVIDER=gemini LLM_API_KEY=xxx ENRICHMENT_ENABLED=true
	./cadence

# API Documentation

Swagger documentation is served at /swagger/index.html. Prometheus
metrics are served at /metrics.

# See Also

  - internal/config: Configuration management
  - internal/playlist: Generation pipeline
  - internal/api: HTTP handlers and routing
  - internal/supervisor: Process supervision
*/
package main
