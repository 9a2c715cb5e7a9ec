// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount returns the number of observations in a histogram child.
func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	h, ok := o.(prometheus.Histogram)
	if !ok {
		t.Fatalf("observer is %T, not a histogram", o)
	}
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{context.Canceled, "canceled"},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := resultLabel(tt.err); got != tt.want {
			t.Errorf("resultLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/playlists/generate", "200"))
	RecordAPIRequest("POST", "/api/v1/playlists/generate", "200", 150*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/playlists/generate", "200"))

	if after != before+1 {
		t.Errorf("requests counter = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active after dec = %v, want %v", got, before)
	}
}

func TestRecordStage(t *testing.T) {
	before := histogramCount(t, PipelineStageDuration.WithLabelValues("select", "timeout"))
	RecordStage("select", 30*time.Second, context.DeadlineExceeded)
	after := histogramCount(t, PipelineStageDuration.WithLabelValues("select", "timeout"))

	if after != before+1 {
		t.Errorf("sample count = %d, want %d", after, before+1)
	}
}

func TestRecordFallbackTransition(t *testing.T) {
	c := PipelineFallbackTransitions.WithLabelValues("primary", "default_strategy", "classify")
	before := testutil.ToFloat64(c)
	RecordFallbackTransition("primary", "default_strategy", "classify")
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("transitions = %v, want %v", got, before+1)
	}
}

func TestRecordLLMRequest(t *testing.T) {
	ok := LLMRequestsTotal.WithLabelValues("gemini", "classify", "success")
	failed := LLMRequestsTotal.WithLabelValues("gemini", "classify", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordLLMRequest("gemini", "classify", time.Second, nil)
	RecordLLMRequest("gemini", "classify", time.Second, errors.New("503"))

	if testutil.ToFloat64(ok) != okBefore+1 {
		t.Error("success counter not incremented")
	}
	if testutil.ToFloat64(failed) != failedBefore+1 {
		t.Error("error counter not incremented")
	}
}

func TestRecordCatalogQuery(t *testing.T) {
	errs := CatalogQueryErrors.WithLabelValues("random", "query")
	before := testutil.ToFloat64(errs)

	RecordCatalogQuery("random", time.Millisecond, nil)
	if testutil.ToFloat64(errs) != before {
		t.Error("error counter incremented on success")
	}
	RecordCatalogQuery("random", time.Millisecond, errors.New("connection reset"))
	if testutil.ToFloat64(errs) != before+1 {
		t.Error("error counter not incremented on failure")
	}
}
