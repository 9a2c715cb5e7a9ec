// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/models"
)

// DefaultSelectionWindow caps how many candidates are shown to the model.
const DefaultSelectionWindow = 100

// Selector asks the text-generation service to choose the final tracks.
type Selector struct {
	client llm.Client
	window int
}

// NewSelector creates a selector. window <= 0 uses DefaultSelectionWindow.
func NewSelector(client llm.Client, window int) *Selector {
	if window <= 0 {
		window = DefaultSelectionWindow
	}
	return &Selector{client: client, window: window}
}

// Select picks up to target tracks from pool.
//
// A pool of at most target tracks is returned unchanged with no call made.
// Otherwise the first window candidates are offered; returned ids not in
// the pool and repeated ids are dropped, the list is truncated to target,
// and unused pool members are appended in pool order when short. No valid
// id at all, or an unparseable reply, is a *SelectionError.
func (s *Selector) Select(ctx context.Context, pool CandidatePool, prompt string, target int) (SelectionResult, error) {
	if target <= 0 {
		return SelectionResult{}, &SelectionError{Reason: fmt.Sprintf("invalid target %d", target)}
	}
	if pool.Len() <= target {
		return SelectionResult{Tracks: pool.Tracks()}, nil
	}

	window := pool.tracks
	if len(window) > s.window {
		window = window[:s.window]
	}

	reply, err := s.client.Generate(ctx, llm.Request{
		Operation: llm.OpSelect,
		System:    selectorInstruction,
		User:      selectorUserPrompt(prompt, window, target),
	})
	if err != nil {
		return SelectionResult{}, &SelectionError{Reason: "text generation", Err: err}
	}

	ids, err := parseSelection(reply)
	if err != nil {
		return SelectionResult{}, &SelectionError{Reason: "invalid response", Err: err}
	}

	tracks, dropped := resolveSelection(pool, ids, target)
	if dropped > 0 {
		metrics.PipelineDroppedSelectionIDs.Add(float64(dropped))
		logging.Ctx(ctx).Debug().
			Int("dropped", dropped).
			Int("returned", len(ids)).
			Msg("Selector reply contained unknown or repeated ids")
	}
	if len(tracks) == 0 {
		return SelectionResult{}, &SelectionError{Reason: "no valid ids", Dropped: dropped}
	}

	result := SelectionResult{Tracks: tracks}
	if len(tracks) < target {
		result.Tracks = padFromPool(pool, tracks, target)
		result.Padded = len(result.Tracks) > len(tracks)
	}
	return result, nil
}

type selectedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// parseSelection accepts {"tracks":[...]} or a bare array. Items may be
// {"id": ...} objects or plain id strings.
func parseSelection(reply string) ([]string, error) {
	payload, err := llm.ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if strings.HasPrefix(payload, "[") {
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			return nil, &llm.DecodeError{Reason: "malformed JSON array", Err: err}
		}
	} else {
		var wrapper struct {
			Tracks []json.RawMessage `json:"tracks"`
		}
		if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
			return nil, &llm.DecodeError{Reason: "malformed JSON object", Err: err}
		}
		if wrapper.Tracks == nil {
			return nil, errors.New(`reply has no "tracks" list`)
		}
		items = wrapper.Tracks
	}

	ids := make([]string, 0, len(items))
	for _, raw := range items {
		raw = bytes.TrimSpace(raw)
		var id string
		if len(raw) > 0 && raw[0] == '"' {
			if err := json.Unmarshal(raw, &id); err != nil {
				continue
			}
		} else {
			var item selectedItem
			if err := json.Unmarshal(raw, &item); err != nil {
				continue
			}
			id = item.ID
		}
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("reply lists no ids")
	}
	return ids, nil
}

// resolveSelection maps ids to pool members by exact match, dropping unknown
// and repeated ids, and truncates to target. dropped counts discarded ids.
func resolveSelection(pool CandidatePool, ids []string, target int) (tracks []models.CandidateTrack, dropped int) {
	used := make(map[string]struct{}, target)
	for _, id := range ids {
		if len(tracks) == target {
			break
		}
		t, ok := pool.Lookup(id)
		if !ok {
			dropped++
			continue
		}
		if _, dup := used[id]; dup {
			dropped++
			continue
		}
		used[id] = struct{}{}
		tracks = append(tracks, t)
	}
	return tracks, dropped
}

// padFromPool appends unused pool members in pool order until target.
func padFromPool(pool CandidatePool, selected []models.CandidateTrack, target int) []models.CandidateTrack {
	used := make(map[string]struct{}, len(selected))
	for i := range selected {
		used[selected[i].ID] = struct{}{}
	}
	out := append(make([]models.CandidateTrack, 0, target), selected...)
	for _, t := range pool.tracks {
		if len(out) >= target {
			break
		}
		if _, ok := used[t.ID]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}
