// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package playlist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/llm"
	"github.com/tomtom215/cadence/internal/models"
)

// mockCatalog implements Catalog over an in-memory slice. RandomTracks
// returns the first limit tracks so results are deterministic.
type mockCatalog struct {
	mu     sync.Mutex
	tracks []models.CandidateTrack
	calls  map[string]int

	err       error // returned by every lookup
	randomErr error // returned by RandomTracks only
}

func newMockCatalog(tracks []models.CandidateTrack) *mockCatalog {
	return &mockCatalog{tracks: tracks, calls: make(map[string]int)}
}

func (m *mockCatalog) record(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

func (m *mockCatalog) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockCatalog) filter(ctx context.Context, limit int, keep func(*models.CandidateTrack) bool) ([]models.CandidateTrack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	var out []models.CandidateTrack
	for i := range m.tracks {
		if len(out) >= limit {
			break
		}
		if keep(&m.tracks[i]) {
			out = append(out, m.tracks[i])
		}
	}
	return out, nil
}

func (m *mockCatalog) RandomTracks(ctx context.Context, limit int) ([]models.CandidateTrack, error) {
	m.record("random")
	if m.randomErr != nil {
		return nil, m.randomErr
	}
	return m.filter(ctx, limit, func(*models.CandidateTrack) bool { return true })
}

func (m *mockCatalog) SearchText(ctx context.Context, words []string, limit int) ([]models.CandidateTrack, error) {
	m.record("text")
	return m.filter(ctx, limit, func(t *models.CandidateTrack) bool {
		hay := strings.ToLower(t.Title + " " + t.ArtistLine() + " " + strings.Join(t.GenreNames, " "))
		for _, w := range words {
			if strings.Contains(hay, w) {
				return true
			}
		}
		return false
	})
}

func (m *mockCatalog) TracksByGenres(ctx context.Context, genres []string, limit int) ([]models.CandidateTrack, error) {
	m.record("genre")
	return m.filter(ctx, limit, func(t *models.CandidateTrack) bool {
		return anyEqualFold(t.GenreNames, genres)
	})
}

func (m *mockCatalog) TracksByArtists(ctx context.Context, artists []string, limit int) ([]models.CandidateTrack, error) {
	m.record("artist")
	return m.filter(ctx, limit, func(t *models.CandidateTrack) bool {
		return anyEqualFold(t.ArtistNames, artists)
	})
}

func (m *mockCatalog) TracksByAudio(ctx context.Context, f models.AudioFilter, limit int) ([]models.CandidateTrack, error) {
	m.record("audio")
	return m.filter(ctx, limit, f.Matches)
}

func anyEqualFold(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

var testGenres = []string{"rock", "jazz", "pop", "ambient", "hip hop"}

// makeTracks builds n synthetic tracks trk-000..trk-(n-1) spread over ten
// artists and five genres.
func makeTracks(n int) []models.CandidateTrack {
	tracks := make([]models.CandidateTrack, n)
	for i := range tracks {
		tracks[i] = models.CandidateTrack{
			ID:              fmt.Sprintf("trk-%03d", i),
			Title:           fmt.Sprintf("Song %d", i),
			ArtistNames:     []string{fmt.Sprintf("Artist %d", i%10)},
			GenreNames:      []string{testGenres[i%len(testGenres)]},
			Energy:          float64(i%10) / 10,
			Danceability:    float64((i+5)%10) / 10,
			Valence:         float64((i*3)%10) / 10,
			DurationSeconds: 180 + i,
			Popularity:      100 - i%100,
		}
	}
	return tracks
}

func ids(tracks []models.CandidateTrack) []string {
	out := make([]string, len(tracks))
	for i := range tracks {
		out[i] = tracks[i].ID
	}
	return out
}

// selectionReply renders ids in the object form the selector asks for.
func selectionReply(ids ...string) string {
	type item struct {
		ID string `json:"id"`
	}
	items := make([]item, len(ids))
	for i, id := range ids {
		items[i] = item{ID: id}
	}
	b, err := json.Marshal(map[string]any{"tracks": items})
	if err != nil {
		panic(err)
	}
	return string(b)
}

// candidateIDs recovers the candidate ids and target from a selector prompt.
func candidateIDs(user string) (ids []string, target int) {
	inList := false
	for _, line := range strings.Split(user, "\n") {
		if _, err := fmt.Sscanf(line, "Select exactly %d tracks.", &target); err == nil {
			continue
		}
		if strings.HasPrefix(line, "Candidates") {
			inList = true
			continue
		}
		if inList && line != "" {
			ids = append(ids, strings.TrimSpace(strings.SplitN(line, " | ", 2)[0]))
		}
	}
	return ids, target
}

// echoTail answers a selection request with the last target candidates,
// so the selection order differs from pool order.
func echoTail() llm.Responder {
	return func(_ context.Context, req llm.Request) (string, error) {
		all, target := candidateIDs(req.User)
		if target > len(all) {
			target = len(all)
		}
		return selectionReply(all[len(all)-target:]...), nil
	}
}

func classifyReply(strategy string, params string) llm.Responder {
	return llm.Reply(fmt.Sprintf(`{"strategy": %q, "reasoning": "test", "params": %s}`, strategy, params))
}
