// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/playlist"
	"github.com/tomtom215/cadence/internal/websocket"
)

// SessionDelivery hands a message to the sockets of one session.
// *websocket.Hub implements it.
type SessionDelivery interface {
	SendToSession(sessionID, messageType string, data interface{}) bool
}

// ProgressHandler forwards progress messages to websocket sessions. It
// always acks: delivery is best-effort and a retry would only repeat a
// stale stage.
type ProgressHandler struct {
	delivery SessionDelivery
	logger   watermill.LoggerAdapter

	received  atomic.Int64
	delivered atomic.Int64
	invalid   atomic.Int64
}

// NewProgressHandler creates a handler for delivery.
func NewProgressHandler(delivery SessionDelivery, logger watermill.LoggerAdapter) (*ProgressHandler, error) {
	if delivery == nil {
		return nil, fmt.Errorf("session delivery required")
	}
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	return &ProgressHandler{delivery: delivery, logger: logger}, nil
}

// Handle decodes one message and queues it for its session.
func (h *ProgressHandler) Handle(msg *message.Message) error {
	h.received.Add(1)

	var ev playlist.ProgressEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil || ev.SessionID == "" {
		h.invalid.Add(1)
		h.logger.Error("Discarding undecodable progress event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		return nil
	}

	if h.delivery.SendToSession(ev.SessionID, websocket.MessageTypeProgress, ev) {
		h.delivered.Add(1)
	}
	return nil
}

// ProgressHandlerStats holds runtime statistics.
type ProgressHandlerStats struct {
	Received  int64
	Delivered int64
	Invalid   int64
}

// Stats returns current handler statistics.
func (h *ProgressHandler) Stats() ProgressHandlerStats {
	return ProgressHandlerStats{
		Received:  h.received.Load(),
		Delivered: h.delivered.Load(),
		Invalid:   h.invalid.Load(),
	}
}

// RouterCloseTimeout bounds how long Close waits for in-flight handlers.
const RouterCloseTimeout = 10 * time.Second

// Router runs the progress handler on a Watermill router.
type Router struct {
	router  *message.Router
	handler *ProgressHandler
}

// NewRouter subscribes handler to TopicProgress on bus.
func NewRouter(bus *Bus, handler *ProgressHandler, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: RouterCloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)
	wmRouter.AddConsumerHandler(
		"progress-to-websocket",
		TopicProgress,
		bus.Subscriber(),
		handler.Handle,
	)

	return &Router{router: wmRouter, handler: handler}, nil
}

// Serve runs the router until ctx is canceled. It implements suture.Service.
func (r *Router) Serve(ctx context.Context) error {
	if err := r.router.Run(ctx); err != nil {
		return fmt.Errorf("progress router: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (r *Router) String() string { return "progress-router" }

// Running returns a channel that closes once the handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router.
func (r *Router) Close() error {
	return r.router.Close()
}

// Stats returns the handler statistics.
func (r *Router) Stats() ProgressHandlerStats {
	return r.handler.Stats()
}
