// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/cadence/internal/config"
)

func TestNewFromConfigDisabled(t *testing.T) {
	c, err := NewFromConfig(context.Background(), &config.LLMConfig{Provider: config.ProviderDisabled})
	require.NoError(t, err)
	assert.Equal(t, "disabled", c.Name())

	_, err = c.Generate(context.Background(), Request{Operation: OpClassify})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewFromConfigUnknownProvider(t *testing.T) {
	_, err := NewFromConfig(context.Background(), &config.LLMConfig{Provider: "carrier-pigeon"})
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestNewFromConfigOpenAICompatibleChain(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	c, err := NewFromConfig(context.Background(), &config.LLMConfig{
		Provider:        config.ProviderGroq,
		BaseURL:         srv.URL,
		APIKey:          "gsk_test",
		Model:           "llama-3.3-70b-versatile",
		RequestTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryBaseDelay:  time.Millisecond,
		BreakerEnabled:  true,
		BreakerTimeout:  time.Minute,
		BreakerMinCalls: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "groq", c.Name())

	out, err := c.Generate(context.Background(), Request{Operation: OpClassify, User: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.EqualValues(t, 2, hits.Load(), "one transient failure then success")
}
