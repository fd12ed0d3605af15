// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Command filmgraph-ingest builds the film ontology from a cleaned CSV and
// loads it into the triple store.
//
//	filmgraph-ingest build --input films_clean.csv --output films.ttl
//	filmgraph-ingest load --input films_clean.csv --endpoint http://localhost:3030/films/data
//
// The load endpoint defaults to SPARQL_GRAPH_STORE_ENDPOINT from the server
// configuration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
