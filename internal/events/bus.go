// Cadence - Prompt-Driven Playlist Generation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/cadence/internal/config"
	"github.com/tomtom215/cadence/internal/logging"
)

// TopicProgress is the topic (NATS subject) progress events travel on.
const TopicProgress = "playlist.progress"

// Transport names reported by Bus.Transport.
const (
	TransportChannel = "gochannel"
	TransportNATS    = "nats"
)

// Bus owns one publisher/subscriber pair and, optionally, the embedded
// NATS server behind them.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	server     *EmbeddedServer
	transport  string
}

// NewBus builds the transport selected by cfg. A nil logger uses the
// global zerolog logger.
func NewBus(cfg config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	if !cfg.NATS.Enabled {
		return NewChannelBus(cfg.BufferSize, logger), nil
	}

	url := cfg.NATS.URL
	var srv *EmbeddedServer
	if cfg.NATS.Embedded {
		var err error
		srv, err = NewEmbeddedServer(cfg.NATS.Host, cfg.NATS.Port)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		url = srv.ClientURL()
		logger.Info("Embedded NATS server started", watermill.LogFields{"url": url})
	}

	bus, err := newNATSBus(url, cfg.NATS, logger)
	if err != nil {
		if srv != nil {
			srv.Shutdown()
		}
		return nil, err
	}
	bus.server = srv
	return bus, nil
}

// NewChannelBus returns an in-process bus.
func NewChannelBus(bufferSize int, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(bufferSize),
	}, logger)
	return &Bus{publisher: ch, subscriber: ch, transport: TransportChannel}
}

func newNATSBus(url string, cfg config.NATSConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("cadence-progress"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	// No queue group: every instance sees every event and delivers it
	// only if it holds the session's socket.
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &Bus{publisher: pub, subscriber: sub, transport: TransportNATS}, nil
}

// Publisher returns the bus publisher.
func (b *Bus) Publisher() message.Publisher { return b.publisher }

// Subscriber returns the bus subscriber.
func (b *Bus) Subscriber() message.Subscriber { return b.subscriber }

// Transport reports TransportChannel or TransportNATS.
func (b *Bus) Transport() string { return b.transport }

// Server returns the embedded NATS server, or nil.
func (b *Bus) Server() *EmbeddedServer { return b.server }

// Close closes the subscriber, the publisher and the embedded server.
func (b *Bus) Close() error {
	var errs []error
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	// gochannel uses one value for both roles
	if b.publisher != nil && b.transport != TransportChannel {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if b.server != nil {
		b.server.Shutdown()
	}
	return errors.Join(errs...)
}
