// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/catalog"
	"github.com/tomtom215/filmgraph/internal/models"
	"github.com/tomtom215/filmgraph/internal/recommend"
	ws "github.com/tomtom215/filmgraph/internal/websocket"
)

// Catalog is satisfied by *catalog.Service.
type Catalog interface {
	Snapshot() catalog.Snapshot
	Search(ctx context.Context, term string) ([]models.Film, error)
	FetchFilms(ctx context.Context) ([]models.Film, error)
	SelectByURI(ctx context.Context, uri string) (models.Film, recommend.Result, error)
	ClearSelection()
	Details(ctx context.Context, filmID string) (*models.FilmDetails, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	FilmsByGenre(ctx context.Context, genreID string) ([]models.Film, error)
}

// Recommender is satisfied by *recommend.Aggregator.
type Recommender interface {
	Recommend(ctx context.Context, subjectID string) (recommend.Result, error)
}

// PosterLookup is satisfied by *poster.Cache.
type PosterLookup interface {
	Result(ctx context.Context, title, year string) models.PosterResult
}

// SPARQLProbe is satisfied by *sparql.Client.
type SPARQLProbe interface {
	Ping(ctx context.Context) error
	Endpoint() string
	BreakerState() string
}

// PosterProbe is satisfied by *poster.Client.
type PosterProbe interface {
	Enabled() bool
	BreakerState() string
}

// Dependencies are the services behind the handlers. Posters and
// PosterStatus may be nil when poster lookups are not configured; StateHub
// may be nil, which disables the state stream.
type Dependencies struct {
	Catalog      Catalog
	Recommender  Recommender
	Posters      PosterLookup
	SPARQL       SPARQLProbe
	PosterStatus PosterProbe
	StateHub     *ws.Hub
	Version      string

	// StreamOrigins are the browser origins allowed to open the state
	// stream. "*" allows any origin.
	StreamOrigins []string
}

// Handler holds the HTTP handlers.
type Handler struct {
	deps           Dependencies
	startTime      time.Time
	requestTimeout time.Duration
	logger         zerolog.Logger
}

// NewHandler returns a Handler. requestTimeout bounds each upstream call made
// on behalf of a request; zero means 30s.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(deps Dependencies, requestTimeout time.Duration, logger zerolog.Logger) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Handler{
		deps:           deps,
		startTime:      time.Now(),
		requestTimeout: requestTimeout,
		logger:         logger.With().Str("component", "api").Logger(),
	}
}

func (h *Handler) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}
