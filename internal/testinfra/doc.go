// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package testinfra provides test infrastructure: containers for integration
// tests and an in-process chat-completions server for end-to-end tests.
//
// # PostgreSQL Container
//
// Built with the integration tag, PostgresContainer starts a throwaway
// PostgreSQL instance through testcontainers-go:
//
//	func TestCatalogOnPostgres(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//
//	    db, err := database.New(&config.DatabaseConfig{Driver: "postgres", DSN: pg.DSN})
//	    // ...
//	}
//
// # Chat Completions Server
//
// MockChatServer answers POST /chat/completions in the OpenAI wire format
// with scripted replies chosen by a caller-supplied function, and captures
// every request for later assertions. It has no build tag so unit tests can
// drive the real OpenAI-compatible client against it.
//
// # CI Considerations
//
// Container tests require Docker and are skipped gracefully when it is
// unavailable. The first run downloads the postgres image.
package testinfra
