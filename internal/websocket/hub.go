// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeProgress = "progress"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
)

// DefaultDeliveryBuffer is the hub's pending-message capacity.
const DefaultDeliveryBuffer = 256

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type envelope struct {
	sessionID string
	message   Message
}

// Hub tracks connected clients by session and delivers each message only
// to the clients registered for its session.
type Hub struct {
	clients    map[*Client]bool
	sessions   map[string]map[*Client]struct{}
	deliver    chan envelope
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub with the default delivery buffer.
func NewHub() *Hub {
	return NewHubWithBuffer(DefaultDeliveryBuffer)
}

// NewHubWithBuffer creates a hub whose pending-message queue holds size messages.
func NewHubWithBuffer(size int) *Hub {
	if size <= 0 {
		size = DefaultDeliveryBuffer
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		sessions:   make(map[string]map[*Client]struct{}),
		deliver:    make(chan envelope, size),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err(). It is designed for suture supervision.
//
// DETERMINISM: priority-based selection. Shutdown is checked first, then
// client lifecycle events, then deliveries, so client state is consistent
// before any message is routed.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case env := <-h.deliver:
			h.deliverToSession(env)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	set, ok := h.sessions[client.sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.sessions[client.sessionID] = set
	}
	set[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Debug().
		Str("session_id", logging.SanitizeSessionID(client.sessionID)).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	removed := h.removeLocked(client)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		metrics.WSConnections.Set(float64(total))
		logging.Debug().
			Str("session_id", logging.SanitizeSessionID(client.sessionID)).
			Int("total_clients", total).
			Msg("websocket client disconnected")
	}
}

// removeLocked drops client from both indexes and closes its send channel.
// The caller holds h.mu.
func (h *Hub) removeLocked(client *Client) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	if set, ok := h.sessions[client.sessionID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	close(client.send)
	return true
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// sortedClients returns the session's clients in id order.
func sortedClients(set map[*Client]struct{}) []*Client {
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// deliverToSession sends a message to every client of one session. Clients
// whose send buffer is full are disconnected.
func (h *Hub) deliverToSession(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.sessions[env.sessionID]
	if !ok {
		return
	}

	var toRemove []*Client
	for _, client := range sortedClients(set) {
		select {
		case client.send <- env.message:
			metrics.WSMessagesSent.Inc()
		default:
			metrics.WSMessagesDropped.Inc()
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		h.removeLocked(client)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		h.removeLocked(client)
	}
	metrics.WSConnections.Set(0)
}

// SendToSession queues a message for the session's clients. It never
// blocks: when the hub's queue is full the message is dropped and false is
// returned. Messages for sessions with no connected client are discarded
// by the hub loop.
func (h *Hub) SendToSession(sessionID, messageType string, data interface{}) bool {
	if sessionID == "" {
		return false
	}
	select {
	case h.deliver <- envelope{sessionID: sessionID, message: Message{Type: messageType, Data: data}}:
		return true
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().
			Str("message_type", messageType).
			Str("session_id", logging.SanitizeSessionID(sessionID)).
			Msg("websocket delivery queue full, dropping message")
		return false
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of clients registered for sessionID.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
