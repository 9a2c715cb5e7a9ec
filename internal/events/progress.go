// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/metrics"
	"github.com/tomtom215/cadence/internal/playlist"
)

// Metadata keys set on every progress message.
const (
	MetadataSessionID = "session_id"
	MetadataStage     = "stage"
)

// DefaultBufferSize is used when NewProgressPublisher gets a non-positive size.
const DefaultBufferSize = 256

// ErrBufferFull is returned by Notify when the event was dropped.
var ErrBufferFull = errors.New("progress buffer full")

// ProgressPublisher implements playlist.Notifier. Notify only enqueues;
// Serve drains the buffer onto the bus, so a slow transport never stalls
// a generation.
type ProgressPublisher struct {
	publisher message.Publisher
	queue     chan playlist.ProgressEvent
	logger    zerolog.Logger
}

// NewProgressPublisher creates a publisher with a bounded buffer.
func NewProgressPublisher(publisher message.Publisher, bufferSize int) *ProgressPublisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &ProgressPublisher{
		publisher: publisher,
		queue:     make(chan playlist.ProgressEvent, bufferSize),
		logger:    logging.WithComponent("progress-publisher"),
	}
}

// Notify queues ev without blocking.
func (p *ProgressPublisher) Notify(_ context.Context, ev playlist.ProgressEvent) error {
	if ev.SessionID == "" {
		return nil
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		metrics.EventsPublishFailures.Inc()
		return ErrBufferFull
	}
}

// Serve publishes queued events until ctx is canceled. It implements
// suture.Service.
func (p *ProgressPublisher) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.queue:
			if err := p.publish(ev); err != nil {
				metrics.EventsPublishFailures.Inc()
				p.logger.Warn().
					Err(err).
					Str("stage", string(ev.Stage)).
					Str("session_id", logging.SanitizeSessionID(ev.SessionID)).
					Msg("Failed to publish progress event")
			}
		}
	}
}

// String names the service in supervisor logs.
func (p *ProgressPublisher) String() string { return "progress-publisher" }

// Pending returns the number of queued events.
func (p *ProgressPublisher) Pending() int { return len(p.queue) }

func (p *ProgressPublisher) publish(ev playlist.ProgressEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal progress event: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(MetadataSessionID, ev.SessionID)
	msg.Metadata.Set(MetadataStage, string(ev.Stage))

	if err := p.publisher.Publish(TopicProgress, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", TopicProgress, err)
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Stage)).Inc()
	return nil
}
