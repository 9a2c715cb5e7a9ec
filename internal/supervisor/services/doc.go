// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

// Package services adapts components whose lifecycle is not already
// Serve(ctx) error to suture.Service:
//
//   - HTTPServerService: ListenAndServe/Shutdown with connection draining
//   - WebSocketHubService: websocket.Hub.RunWithContext
//
// The progress publisher, progress router and enrichment worker implement
// suture.Service themselves and are added to the tree directly.
package services
