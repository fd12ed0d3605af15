// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package testinfra starts real services in Docker for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// FusekiContainer runs Apache Jena Fuseki with an in-memory dataset that
// accepts Graph Store uploads, so a test can load a graph with
// ingest.Load and query it through sparql.Client exactly as the server
// does. Tests call SkipIfNoDocker first and are skipped when no Docker
// daemon is reachable.
package testinfra
