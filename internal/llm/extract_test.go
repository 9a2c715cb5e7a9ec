// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare object", `{"strategy":"random"}`, `{"strategy":"random"}`},
		{"surrounding prose", "Sure! Here you go:\n{\"strategy\":\"genre\"}\nHope that helps.", `{"strategy":"genre"}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"nested braces keep outermost", `x {"a":{"b":{}}} y`, `{"a":{"b":{}}}`},
		{"bare array", `[{"id":"1"},{"id":"2"}]`, `[{"id":"1"},{"id":"2"}]`},
		{"array in prose", `ids: ["a","b"] done`, `["a","b"]`},
		{"object wrapping array", `{"tracks":[{"id":"1"}]}`, `{"tracks":[{"id":"1"}]}`},
		{"citation before object", `see [1]. {"tracks":[{"id":"1"}]}`, `{"tracks":[{"id":"1"}]}`},
		{"one-line fence", "```json {\"a\":1} ```", `{"a":1}`},
		{"fence with trailing prose", "```json\n[\"a\"]\n``` done", `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractObjectIgnoresBrackets(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"tag before object", `[analysis] {"strategy":"genre","params":{"genres":["rock"]}}`, `{"strategy":"genre","params":{"genres":["rock"]}}`},
		{"citation before object", `Note: see [1]. {"a":[1,2]}`, `{"a":[1,2]}`},
		{"one-line fence", "```json {\"strategy\":\"random\",\"reasoning\":\"r\",\"params\":{}} ```", `{"strategy":"random","reasoning":"r","params":{}}`},
		{"fence without language", "```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractObjectRejectsArrays(t *testing.T) {
	_, err := ExtractObject(`["a","b"]`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestExtractJSONInvalidSpansReturnFirst(t *testing.T) {
	got, err := ExtractJSON(`[oops] {broken`)
	require.NoError(t, err)
	assert.Equal(t, `[oops]`, got)
}

func TestExtractJSONFailures(t *testing.T) {
	for _, reply := range []string{"", "   ", "no json here", "} backwards {", "```\n```"} {
		_, err := ExtractJSON(reply)
		require.Error(t, err, "reply %q", reply)
		assert.True(t, errors.Is(err, ErrInvalidJSON), "reply %q: %v", reply, err)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	got, err := DecodeJSON[payload]("```json\n{\"title\":\"Late Night Focus\",\"description\":\"#study\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Late Night Focus", got.Title)
	assert.Equal(t, "#study", got.Description)

	got, err = DecodeJSON[payload](`Title ideas [draft]: {"title":"T","description":"D"}`)
	require.NoError(t, err)
	assert.Equal(t, payload{Title: "T", Description: "D"}, got)

	_, err = DecodeJSON[payload](`{"title": "unterminated}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidJSON)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "malformed JSON", de.Reason)
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	var v struct {
		Query string `json:"query"`
	}
	require.NoError(t, DecodeStrict([]byte(`{"query":"rainy day"}`), &v))
	assert.Equal(t, "rainy day", v.Query)

	err := DecodeStrict([]byte(`{"query":"x","genres":["rock"]}`), &v)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestSnippetTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, snippet(string(long)), snippetLength+3)
	assert.Equal(t, "short", snippet("short"))
}
