// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Command server runs the filmgraph HTTP API.

filmgraph serves a film catalog stored in a SPARQL triple store (Apache Jena
Fuseki in development), recommends films that share an actor, genre or
director with a selected film, and looks up posters through OMDb.

# Supervision

	root ("filmgraph")
	├── catalog-layer
	│   └── catalog-refresh   initial load and periodic refresh
	├── messaging-layer
	│   ├── event-bus         poster prefetch on catalog.loaded (optional)
	│   └── websocket-hub     pushes catalog state to /api/v1/state/ws clients
	└── api-layer
	    └── http-server       chi router, /api/v1, /health, /metrics

# Configuration

Defaults, then an optional YAML file (CONFIG_PATH), then environment
variables:

	SPARQL_ENDPOINT=http://localhost:3030/films/sparql
	SPARQL_TIMEOUT=15s
	OMDB_API_KEY=               # empty disables poster lookups
	POSTER_CACHE_PATH=          # badger directory; empty keeps posters in memory
	POSTER_PREFETCH=false       # warm the poster cache after each catalog load
	CATALOG_LOAD_ON_STARTUP=true
	CATALOG_REFRESH_INTERVAL=0  # zero disables periodic refresh
	HTTP_HOST=0.0.0.0
	HTTP_PORT=8080
	LOG_LEVEL=info
	LOG_FORMAT=json

Load data into the store with the ingest command first:

	ingest build -i films_clean.csv -o films.ttl
	ingest load -i films_clean.csv --replace
*/
package main
