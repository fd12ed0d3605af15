// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package supervisor runs the long-lived parts of filmgraph under suture v4.

The tree has three layers so that a failing component restarts without
taking the others down:

	root ("filmgraph")
	├── catalog-layer
	│   └── CatalogRefreshService (initial load and periodic refresh)
	├── messaging-layer
	│   ├── EventBusService (watermill router, poster prefetch)
	│   └── WebSocketHubService (state stream)
	└── api-layer
	    └── HTTPServerService

Supervisor events (start, failure, backoff) are logged through sutureslog.
The slog logger handed to NewSupervisorTree is normally
logging.NewSlogLogger, so these events end up in the zerolog stream.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCatalogService(services.NewCatalogRefreshService(svc, refreshCfg, logger))
	tree.AddMessagingService(services.NewEventBusService(bus, logger))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	errCh := tree.ServeBackground(ctx)
*/
package supervisor
