// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package recommend aggregates graph-based film recommendations.
//
// # Architecture
//
// A recommendation for a selected film is the union of three relation
// lookups against the knowledge graph:
//
//   - actor: films sharing at least one actor
//   - genre: films sharing at least one genre
//   - director: films sharing the director
//
// The Aggregator issues the three lookups concurrently and waits for all of
// them to settle. A lookup that fails contributes nothing; the other two are
// still merged. Only an orchestration failure (an invalid subject, a context
// that is already done, or every source failing) fails the aggregate, and
// then the result is empty.
//
// # Merge
//
// Merge is pure and independent of the fan-out. It concatenates the lists in
// the fixed order actor, genre, director and keeps the first film seen for
// each URI. Completion order of the lookups never affects the output. Films
// without a URI have no identity and are dropped.
//
// # Usage
//
//	agg := recommend.NewAggregator(sparqlClient, 10*time.Second, logger)
//	res, err := agg.Recommend(ctx, "http://example.org/film#Film_Inception")
//
// # Thread Safety
//
// Aggregator holds no mutable state and is safe for concurrent use.
package recommend
