// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/logging"
	"github.com/tomtom215/filmgraph/internal/metrics"
	"github.com/tomtom215/filmgraph/internal/models"
)

// BusConfig configures a Bus.
type BusConfig struct {
	// OutputChannelBuffer is the per-subscriber buffer of the in-process
	// pub/sub.
	OutputChannelBuffer int64

	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration for handlers.
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
}

// DefaultBusConfig returns production defaults.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		OutputChannelBuffer:  64,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      2,
		RetryInitialInterval: 500 * time.Millisecond,
	}
}

// Bus is an in-process event bus: a watermill GoChannel pub/sub plus a
// router running the registered consumers.
type Bus struct {
	pubsub  *gochannel.GoChannel
	router  *message.Router
	logger  zerolog.Logger
	running atomic.Bool
}

// NewBus creates the pub/sub and router. Consumers are added with
// AddConsumer before Run.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg BusConfig, logger zerolog.Logger) (*Bus, error) {
	log := logger.With().Str("component", "events").Logger()
	wmLogger := NewLoggerAdapter(log)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.OutputChannelBuffer,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			Logger:          wmLogger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	return &Bus{pubsub: pubsub, router: router, logger: log}, nil
}

// AddConsumer registers handler for topic. Each consumer receives every
// message published to the topic.
func (b *Bus) AddConsumer(name, topic string, handler message.NoPublishHandlerFunc) {
	b.router.AddConsumerHandler(name, topic, b.pubsub, instrument(topic, handler))
}

func instrument(topic string, handler message.NoPublishHandlerFunc) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		err := handler(msg)
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		metrics.EventsHandled.WithLabelValues(topic, outcome).Inc()
		return err
	}
}

// Publish sends payload to topic.
func (b *Bus) Publish(ctx context.Context, topic, eventType string, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventType, eventType)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// PublishCatalogLoaded publishes a CatalogLoaded event for films.
func (b *Bus) PublishCatalogLoaded(ctx context.Context, films []models.Film) error {
	payload, err := marshalEvent(NewCatalogLoaded(films))
	if err != nil {
		return fmt.Errorf("marshal catalog loaded: %w", err)
	}
	return b.Publish(ctx, TopicCatalogLoaded, TopicCatalogLoaded, payload)
}

// Run runs the router until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	b.running.Store(true)
	defer b.running.Store(false)

	// A router without handlers only stops on Close, not on cancellation.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-runCtx.Done()
		if err := b.router.Close(); err != nil {
			b.logger.Warn().Err(err).Msg("event router close failed")
		}
	}()

	b.logger.Info().Msg("event router starting")
	return b.router.Run(runCtx)
}

// Running is closed once the router is processing messages.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// IsRunning reports whether Run is active.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Close stops the router and the pub/sub.
func (b *Bus) Close() error {
	rerr := b.router.Close()
	perr := b.pubsub.Close()
	if rerr != nil {
		return rerr
	}
	return perr
}
