// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package events carries in-process domain events over Watermill.

Bus wraps a GoChannel pub/sub and a message router with recoverer and retry
middleware. The catalog service publishes catalog.loaded after a fetch is
applied; the poster prefetch consumer warms the poster cache from it so the
first page render does not wait on OMDb.

Messages carry an event_type metadata key and, when the publishing request
had one, a correlation_id.
*/
package events
