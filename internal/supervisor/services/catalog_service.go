// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/models"
)

// CatalogLoader is satisfied by *catalog.Service.
type CatalogLoader interface {
	FetchFilms(ctx context.Context) ([]models.Film, error)
}

// CatalogRefreshConfig controls when the catalog is fetched in the
// background.
type CatalogRefreshConfig struct {
	// LoadOnStartup fetches the catalog as soon as the service starts.
	LoadOnStartup bool

	// RefreshInterval re-fetches periodically; zero disables the loop.
	RefreshInterval time.Duration

	// Timeout bounds each fetch. Default: 30s
	Timeout time.Duration

	// StartAfter, when set, delays the startup load until it is closed, so
	// subscribers of the catalog.loaded event are in place. Typically the
	// event bus Running channel.
	StartAfter <-chan struct{}

	// StartAfterTimeout bounds the wait on StartAfter; the load then runs
	// anyway. Default: 15s
	StartAfterTimeout time.Duration
}

// CatalogRefreshService keeps the catalog state warm. A failed fetch is
// logged and left in the state as an error message; it never makes the
// service fail, since the next request or tick retries it.
type CatalogRefreshService struct {
	loader CatalogLoader
	config CatalogRefreshConfig
	logger zerolog.Logger
	name   string
}

// NewCatalogRefreshService creates the service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCatalogRefreshService(loader CatalogLoader, cfg CatalogRefreshConfig, logger zerolog.Logger) *CatalogRefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.StartAfterTimeout <= 0 {
		cfg.StartAfterTimeout = 15 * time.Second
	}
	return &CatalogRefreshService{
		loader: loader,
		config: cfg,
		logger: logger.With().Str("service", "catalog-refresh").Logger(),
		name:   "catalog-refresh",
	}
}

// Serve implements suture.Service.
func (s *CatalogRefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("load_on_startup", s.config.LoadOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("catalog refresh service starting")

	if s.config.LoadOnStartup {
		if err := s.waitStartAfter(ctx); err != nil {
			return err
		}
		s.load(ctx, "startup")
	}

	if s.config.RefreshInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.load(ctx, "scheduled")
		}
	}
}

// waitStartAfter blocks until StartAfter is closed or its timeout passes.
// It only returns an error when ctx is done.
func (s *CatalogRefreshService) waitStartAfter(ctx context.Context) error {
	if s.config.StartAfter == nil {
		return nil
	}

	timer := time.NewTimer(s.config.StartAfterTimeout)
	defer timer.Stop()

	select {
	case <-s.config.StartAfter:
		return nil
	case <-timer.C:
		s.logger.Warn().
			Dur("waited", s.config.StartAfterTimeout).
			Msg("event subscribers not ready, loading catalog without them")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CatalogRefreshService) load(ctx context.Context, trigger string) {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	films, err := s.loader.FetchFilms(loadCtx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("trigger", trigger).Msg("catalog load failed")
		}
		return
	}
	s.logger.Info().
		Str("trigger", trigger).
		Int("films", len(films)).
		Dur("duration", time.Since(start)).
		Msg("catalog loaded")
}

func (s *CatalogRefreshService) String() string {
	return s.name
}
