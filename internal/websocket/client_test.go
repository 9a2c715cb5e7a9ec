// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// setupWebSocketServer upgrades every request and registers a client for
// the session named in the query string.
func setupWebSocketServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("session_id"))
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(server.Close)
	return server
}

// dialWebSocket connects to the test server for sessionID.
func dialWebSocket(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session_id=" + sessionID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatal(err)
	}
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestClientPingPong(t *testing.T) {
	hub := setupHub(t)
	conn := dialWebSocket(t, setupWebSocketServer(t, hub), "ping-session")

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestClientReceivesSessionProgress(t *testing.T) {
	hub := setupHub(t)
	server := setupWebSocketServer(t, hub)
	mine := dialWebSocket(t, server, "mine")
	dialWebSocket(t, server, "other")
	waitFor(t, func() bool { return hub.GetClientCount() == 2 }, "two clients")

	hub.SendToSession("mine", MessageTypeProgress, map[string]interface{}{
		"session_id":  "mine",
		"stage":       "retrieval_complete",
		"track_count": 50,
	})

	msg := readMessage(t, mine)
	if msg.Type != MessageTypeProgress {
		t.Fatalf("type = %q", msg.Type)
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", msg.Data)
	}
	if data["stage"] != "retrieval_complete" {
		t.Errorf("stage = %v", data["stage"])
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := setupHub(t)
	conn := dialWebSocket(t, setupWebSocketServer(t, hub), "bye")
	waitFor(t, func() bool { return hub.GetClientCount() == 1 }, "client")

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	waitFor(t, func() bool { return hub.GetClientCount() == 0 }, "client unregistered")
}

func TestClientConstants(t *testing.T) {
	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
	c := NewClient(NewHub(), nil, "abc")
	if c.SessionID() != "abc" || c.ID() == 0 {
		t.Errorf("unexpected client %+v", c)
	}
	if cap(c.send) != sendBuffer {
		t.Errorf("send capacity = %d", cap(c.send))
	}
}
