// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/models"
)

// PosterWarmer is satisfied by *poster.Cache.
type PosterWarmer interface {
	Warm(ctx context.Context, films []models.Film) int
}

// NewPosterPrefetchHandler returns a consumer that warms the poster cache
// for every film in a CatalogLoaded event. Invalid payloads are logged and
// acknowledged so they are not retried.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPosterPrefetchHandler(warmer PosterWarmer, logger zerolog.Logger) message.NoPublishHandlerFunc {
	log := logger.With().Str("handler", "poster_prefetch").Logger()

	return func(msg *message.Message) error {
		event, err := unmarshalCatalogLoaded(msg.Payload)
		if err != nil {
			log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping malformed event")
			return nil
		}

		ctx := msg.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		start := time.Now()
		n := warmer.Warm(ctx, event.ModelFilms())
		log.Debug().
			Str("event_id", event.EventID).
			Str("correlation_id", msg.Metadata.Get(MetadataCorrelationID)).
			Int("films", n).
			Dur("elapsed", time.Since(start)).
			Msg("poster cache warmed")
		return nil
	}
}
