// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// ChatCapture is one captured chat-completions request.
type ChatCapture struct {
	System string
	User   string
	Model  string
}

// ChatReplyFunc picks the reply content for a request. Returning a non-zero
// status sends that status with an error body instead.
type ChatReplyFunc func(c ChatCapture) (content string, status int)

// MockChatServer is an in-process OpenAI-compatible chat-completions server.
type MockChatServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	captures []ChatCapture
	reply    ChatReplyFunc
}

type mockChatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// NewMockChatServer starts a server that answers with reply. The server is
// closed when the test ends.
func NewMockChatServer(t *testing.T, reply ChatReplyFunc) *MockChatServer {
	t.Helper()

	m := &MockChatServer{reply: reply}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockChatServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req mockChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	c := ChatCapture{Model: req.Model}
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			c.System = msg.Content
		case "user":
			c.User = msg.Content
		}
	}

	m.mu.Lock()
	m.captures = append(m.captures, c)
	reply := m.reply
	m.mu.Unlock()

	content, status := reply(c)
	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": http.StatusText(status)},
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
}

// URL returns the base URL to configure as the provider base URL.
func (m *MockChatServer) URL() string {
	return m.Server.URL
}

// Captures returns a copy of all captured requests.
func (m *MockChatServer) Captures() []ChatCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChatCapture, len(m.captures))
	copy(out, m.captures)
	return out
}

// SetReply swaps the reply function.
func (m *MockChatServer) SetReply(reply ChatReplyFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}
