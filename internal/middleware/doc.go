// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package middleware provides the HTTP middleware shared by the API router.

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
    with request and correlation IDs
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled by
    chi route pattern so URL parameters do not create new series
  - AccessLog: one zerolog line per request, raised to warn above a latency
    threshold

All three have the func(http.Handler) http.Handler shape used by chi's Use.
*/
package middleware
