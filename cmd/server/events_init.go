// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package main

import (
	"fmt"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/events"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/supervisor"
	"github.com/tomtom215/cadence/internal/supervisor/services"
	ws "github.com/tomtom215/cadence/internal/websocket"
)

// EventComponents holds the progress event pipeline: generator -> publisher
// -> bus -> router -> WebSocket hub.
type EventComponents struct {
	Bus       *events.Bus
	Publisher *events.ProgressPublisher
	Router    *events.Router
}

// InitEvents builds the event bus and the progress pipeline around hub.
// The returned components are not running; add them to the supervisor with
// AddEventsToSupervisor.
func InitEvents(cfg *config.Config, hub *ws.Hub) (*EventComponents, error) {
	adapter := logging.NewWatermillAdapter()

	bus, err := events.NewBus(cfg.Events, adapter)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}

	handler, err := events.NewProgressHandler(hub, adapter)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("create progress handler: %w", err)
	}

	router, err := events.NewRouter(bus, handler, adapter)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("create progress router: %w", err)
	}

	logging.Info().
		Str("transport", bus.Transport()).
		Int("buffer_size", cfg.Events.BufferSize).
		Msg("Event bus initialized")

	return &EventComponents{
		Bus:       bus,
		Publisher: events.NewProgressPublisher(bus.Publisher(), cfg.Events.BufferSize),
		Router:    router,
	}, nil
}

// AddEventsToSupervisor adds the hub, the publisher and the router to the
// events layer.
func AddEventsToSupervisor(tree *supervisor.SupervisorTree, hub *ws.Hub, ec *EventComponents) {
	tree.AddEventService(services.NewWebSocketHubService(hub))
	if ec == nil {
		return
	}
	tree.AddEventService(ec.Publisher)
	tree.AddEventService(ec.Router)
	logging.Info().Msg("WebSocket hub and progress pipeline added to supervisor tree")
}

// Close releases the bus. The router is closed by its own shutdown.
func (ec *EventComponents) Close() error {
	if ec == nil || ec.Bus == nil {
		return nil
	}
	return ec.Bus.Close()
}
