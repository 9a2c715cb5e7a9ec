// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package websocket delivers playlist progress to browsers.

A client connects with a session id and receives only the messages sent to
that session. The generate request carries the same session id, so the
browser can show "analysing", "retrieving" and "selecting" while the
pipeline runs.

Key Components:

  - Hub: owns the client set and a per-session index, routes messages
  - Client: one connection with a read goroutine and a write goroutine
  - Message: typed envelope, {"type": "progress", "data": {...}}

The hub is a single goroutine (RunWithContext) fed by three channels:
Register, Unregister and an internal delivery queue. SendToSession never
blocks; when the queue or a client's buffer is full the message is dropped
and counted, because progress is advisory.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	client := websocket.NewClient(hub, conn, sessionID)
	hub.Register <- client
	client.Start()

	hub.SendToSession(sessionID, websocket.MessageTypeProgress, event)

Clients may send {"type": "ping"} and receive {"type": "pong"}.
*/
package websocket
