// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/api"
	"github.com/tomtom215/filmgraph/internal/catalog"
	"github.com/tomtom215/filmgraph/internal/config"
	"github.com/tomtom215/filmgraph/internal/events"
	"github.com/tomtom215/filmgraph/internal/poster"
	"github.com/tomtom215/filmgraph/internal/recommend"
	"github.com/tomtom215/filmgraph/internal/sparql"
	"github.com/tomtom215/filmgraph/internal/supervisor"
	"github.com/tomtom215/filmgraph/internal/supervisor/services"
	ws "github.com/tomtom215/filmgraph/internal/websocket"
)

// shutdownTimeout bounds HTTP shutdown and each supervised service's stop.
const shutdownTimeout = 10 * time.Second

// app holds the wired components of the server.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	sparql  *sparql.Client
	posters *poster.Client
	cache   *poster.Cache
	bus     *events.Bus // nil unless poster prefetch is enabled
	catalog *catalog.Service
	hub     *ws.Hub
	server  *http.Server
}

// newApp builds every component from cfg. Nothing is started and no network
// call is made; Close releases what newApp opened.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	client, err := sparql.NewClient(sparql.ClientConfig{
		Endpoint:       cfg.SPARQL.Endpoint,
		Timeout:        cfg.SPARQL.Timeout,
		CircuitBreaker: cfg.SPARQL.CircuitBreakerEnabled,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("sparql client: %w", err)
	}
	a.sparql = client

	a.posters = poster.NewClient(poster.ClientConfig{
		APIKey:            cfg.Poster.APIKey,
		Endpoint:          cfg.Poster.Endpoint,
		Timeout:           cfg.Poster.Timeout,
		RequestsPerSecond: cfg.Poster.RequestsPerSecond,
		Burst:             cfg.Poster.Burst,
	}, logger)

	var store poster.Store
	if cfg.Poster.CachePath != "" {
		bs, err := poster.OpenBadgerStore(cfg.Poster.CachePath)
		if err != nil {
			return nil, err
		}
		store = bs
	}
	a.cache = poster.NewCache(a.posters, store, logger)

	var publisher catalog.Publisher
	if cfg.PostersEnabled() && cfg.Poster.PrefetchEnabled {
		bus, err := events.NewBus(events.DefaultBusConfig(), logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		bus.AddConsumer("poster_prefetch", events.TopicCatalogLoaded, events.NewPosterPrefetchHandler(a.cache, logger))
		a.bus = bus
		publisher = bus
	}

	agg := recommend.NewAggregator(client, cfg.SPARQL.Timeout, logger)
	state := catalog.NewState()
	a.hub = ws.NewHub(func() interface{} { return state.Snapshot() }, logger)
	state.OnChange(a.hub.Notify)
	a.catalog = catalog.NewService(state, client, agg, publisher, logger)

	handler := api.NewHandler(api.Dependencies{
		Catalog:       a.catalog,
		Recommender:   agg,
		Posters:       a.cache,
		SPARQL:        client,
		PosterStatus:  a.posters,
		StateHub:      a.hub,
		StreamOrigins: cfg.Server.CORSOrigins,
		Version:       version,
	}, cfg.Server.Timeout, logger)

	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mw.RateLimitRequests = cfg.Server.RateLimitRequests
	mw.RateLimitWindow = cfg.Server.RateLimitWindow
	mw.RateLimitDisabled = cfg.Server.RateLimitDisabled

	a.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, api.RouterConfig{Middleware: mw, SlowRequestThreshold: cfg.Server.Timeout / 2}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// tree returns the supervisor tree with every service added.
func (a *app) tree(logger *slog.Logger) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return nil, err
	}

	refresh := services.CatalogRefreshConfig{
		LoadOnStartup:   a.cfg.Catalog.LoadOnStartup,
		RefreshInterval: a.cfg.Catalog.RefreshInterval,
		Timeout:         a.cfg.SPARQL.Timeout,
	}
	if a.bus != nil {
		// The gochannel pub/sub drops messages published before the router
		// subscribes, so the first catalog.loaded waits for it.
		refresh.StartAfter = a.bus.Running()
	}
	tree.AddCatalogService(services.NewCatalogRefreshService(a.catalog, refresh, a.logger))

	if a.bus != nil {
		tree.AddMessagingService(services.NewEventBusService(a.bus, a.logger))
	}
	tree.AddMessagingService(services.NewWebSocketHubService(a.hub))

	tree.AddAPIService(services.NewHTTPServerService(a.server, shutdownTimeout, a.logger))
	return tree, nil
}

// Close releases the poster cache store and the event bus.
func (a *app) Close() error {
	var errs []error
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close poster cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
