// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

/*
Package events carries playlist progress from the pipeline to websocket
clients over a Watermill bus.

Flow:

	playlist.Generator
	    │ Notify (non-blocking, bounded buffer)
	    ▼
	ProgressPublisher ──► topic "playlist.progress" ──► Router
	                                                      │ ProgressHandler
	                                                      ▼
	                                             websocket.Hub.SendToSession

Transports:

  - gochannel (default): in-process pub/sub, progress only reaches sockets
    held by the same instance
  - NATS core (events.nats.enabled): every instance subscribes without a
    queue group, so whichever instance holds the socket delivers the event
  - embedded nats-server (events.nats.embedded): a single-binary NATS for
    local multi-process setups

Progress is advisory. A full buffer, a failed publish or an undecodable
message is counted and logged, never retried and never surfaced to the
pipeline.
*/
package events
