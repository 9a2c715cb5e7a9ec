// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/cadence/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub starts a hub that stops when the test ends.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub, sessionID string) *Client {
	return NewClient(hub, nil, sessionID)
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	return Message{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.clients == nil || hub.sessions == nil {
		t.Fatal("indexes not initialized")
	}
	if cap(hub.deliver) != DefaultDeliveryBuffer {
		t.Errorf("deliver capacity = %d, want %d", cap(hub.deliver), DefaultDeliveryBuffer)
	}
	if got := cap(NewHubWithBuffer(-1).deliver); got != DefaultDeliveryBuffer {
		t.Errorf("NewHubWithBuffer(-1) capacity = %d", got)
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := setupHub(t)
	a := createTestClient(hub, "session-a")
	b := createTestClient(hub, "session-a")

	hub.Register <- a
	hub.Register <- b
	waitFor(t, func() bool { return hub.GetClientCount() == 2 }, "two clients")
	if got := hub.SessionClientCount("session-a"); got != 2 {
		t.Errorf("SessionClientCount = %d, want 2", got)
	}

	hub.Unregister <- a
	waitFor(t, func() bool { return hub.GetClientCount() == 1 }, "one client")
	if _, ok := <-a.send; ok {
		t.Error("unregistered client's channel should be closed")
	}

	// unregistering twice is harmless
	hub.Unregister <- a
	hub.Unregister <- b
	waitFor(t, func() bool { return hub.SessionClientCount("session-a") == 0 }, "session emptied")
}

func TestHubDeliversOnlyToSession(t *testing.T) {
	hub := setupHub(t)
	a1 := createTestClient(hub, "session-a")
	a2 := createTestClient(hub, "session-a")
	b := createTestClient(hub, "session-b")
	for _, c := range []*Client{a1, a2, b} {
		hub.Register <- c
	}
	waitFor(t, func() bool { return hub.GetClientCount() == 3 }, "three clients")

	if !hub.SendToSession("session-a", MessageTypeProgress, map[string]string{"stage": "analysis_started"}) {
		t.Fatal("SendToSession returned false")
	}

	for _, c := range []*Client{a1, a2} {
		msg := receive(t, c)
		if msg.Type != MessageTypeProgress {
			t.Errorf("type = %q, want %q", msg.Type, MessageTypeProgress)
		}
	}
	expectNothing(t, b)
}

func TestHubUnknownSessionIsDiscarded(t *testing.T) {
	hub := setupHub(t)
	c := createTestClient(hub, "known")
	hub.Register <- c
	waitFor(t, func() bool { return hub.GetClientCount() == 1 }, "client")

	if !hub.SendToSession("unknown", MessageTypeProgress, nil) {
		t.Fatal("queueing should succeed even without listeners")
	}
	expectNothing(t, c)
}

func TestHubRejectsEmptySession(t *testing.T) {
	hub := NewHub()
	if hub.SendToSession("", MessageTypeProgress, nil) {
		t.Error("empty session id should be rejected")
	}
}

func TestHubSendNeverBlocks(t *testing.T) {
	hub := NewHubWithBuffer(2) // not running, so nothing drains
	results := make(chan bool, 3)
	go func() {
		for i := 0; i < 3; i++ {
			results <- hub.SendToSession("s", MessageTypeProgress, i)
		}
		close(results)
	}()

	var accepted, dropped int
	timeout := time.After(time.Second)
	for {
		select {
		case ok, open := <-results:
			if !open {
				if accepted != 2 || dropped != 1 {
					t.Errorf("accepted=%d dropped=%d, want 2 and 1", accepted, dropped)
				}
				return
			}
			if ok {
				accepted++
			} else {
				dropped++
			}
		case <-timeout:
			t.Fatal("SendToSession blocked")
		}
	}
}

func TestHubDisconnectsSlowClient(t *testing.T) {
	hub := setupHub(t)
	slow := createTestClient(hub, "s")
	hub.Register <- slow
	waitFor(t, func() bool { return hub.GetClientCount() == 1 }, "client")

	for i := 0; i <= sendBuffer; i++ {
		hub.SendToSession("s", MessageTypeProgress, i)
	}
	waitFor(t, func() bool { return hub.GetClientCount() == 0 }, "slow client removed")
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	c := createTestClient(hub, "s")
	hub.Register <- c
	waitFor(t, func() bool { return hub.GetClientCount() == 1 }, "client")

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 {
		t.Error("clients should be closed on shutdown")
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel should be closed")
	}
}

func TestGetShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled reason = %q", got)
	}

	expired, cancel2 := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel2()
	<-expired.Done()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline reason = %q", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"pong","data":null}` {
		t.Errorf("got %s", data)
	}
}
