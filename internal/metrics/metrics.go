// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package metrics holds the Prometheus collectors for filmgraph. Collectors are
// package variables registered with promauto and served by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// SPARQL Metrics
	SPARQLQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparql_queries_total",
			Help: "Total number of SPARQL queries sent to the triple store",
		},
		[]string{"kind", "outcome"}, // outcome: success, error
	)

	SPARQLQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sparql_query_duration_seconds",
			Help:    "Round-trip duration of SPARQL queries in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	SPARQLRowsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sparql_rows_returned",
			Help:    "Number of bindings returned per SPARQL query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"kind"},
	)

	GraphStoreUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_store_uploads_total",
			Help: "Total number of Turtle uploads to the graph store",
		},
		[]string{"outcome"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation aggregations",
		},
		[]string{"outcome"}, // success, failed
	)

	RecommendationSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_source_failures_total",
			Help: "Relation lookups that failed and were treated as empty",
		},
		[]string{"relation"},
	)

	RecommendationSetSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_set_size",
			Help:    "Number of films in a merged recommendation set",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	RecommendationUnidentifiedDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_unidentified_rows_dropped_total",
			Help: "Rows without a uri binding dropped during merge",
		},
	)

	CatalogStaleResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_stale_results_discarded_total",
			Help: "Results discarded because a newer request superseded them",
		},
		[]string{"flow"}, // films, recommendations
	)

	CatalogFilms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_films",
			Help: "Number of films in the current catalog view",
		},
	)

	// Poster Cache Metrics
	PosterCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poster_cache_hits_total",
			Help: "Poster lookups answered from cache",
		},
	)

	PosterCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poster_cache_misses_total",
			Help: "Poster lookups that required a remote call",
		},
	)

	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_lookups_total",
			Help: "Remote poster lookups by outcome",
		},
		[]string{"outcome"}, // found, absent, error, disabled
	)

	PosterCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poster_cache_entries",
			Help: "Entries held in the in-memory poster cache",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events published on the internal bus",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Domain events consumed by handlers",
		},
		[]string{"topic", "outcome"},
	)

	// State Stream Metrics
	StateStreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "state_stream_clients",
			Help: "WebSocket clients subscribed to catalog state changes",
		},
	)

	StateStreamMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_stream_messages_total",
			Help: "State snapshots pushed to WebSocket clients",
		},
		[]string{"outcome"}, // outcome: sent, dropped
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSPARQLQuery records one query round trip.
func RecordSPARQLQuery(kind string, duration time.Duration, rows int, err error) {
	SPARQLQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		SPARQLQueriesTotal.WithLabelValues(kind, "error").Inc()
		return
	}
	SPARQLQueriesTotal.WithLabelValues(kind, "success").Inc()
	SPARQLRowsReturned.WithLabelValues(kind).Observe(float64(rows))
}

// RecordRecommendation records the outcome of one aggregation.
func RecordRecommendation(size int, err error) {
	if err != nil {
		RecommendationRequests.WithLabelValues("failed").Inc()
		return
	}
	RecommendationRequests.WithLabelValues("success").Inc()
	RecommendationSetSize.Observe(float64(size))
}

// RecordPosterLookup records the outcome of a remote poster lookup.
func RecordPosterLookup(outcome string) {
	PosterLookups.WithLabelValues(outcome).Inc()
}
