// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout bounds the SPARQL ping made by /health/ready.
const readinessTimeout = 5 * time.Second

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`

	SPARQLEndpoint string `json:"sparql_endpoint,omitempty"`
	SPARQLBreaker  string `json:"sparql_breaker"`
	PostersEnabled bool   `json:"posters_enabled"`
	PosterBreaker  string `json:"poster_breaker,omitempty"`

	Films int `json:"films"`
}

// ReadinessStatus is the body of /health/ready.
type ReadinessStatus struct {
	Ready  bool   `json:"ready"`
	SPARQL string `json:"sparql"`
	Error  string `json:"error,omitempty"`
}

// Health handles GET /health. It never calls upstream services: status is
// "degraded" when a circuit breaker is not closed and "healthy" otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Version:       h.deps.Version,
		Uptime:        time.Since(h.startTime).Seconds(),
		SPARQLBreaker: "disabled",
		Films:         len(h.deps.Catalog.Snapshot().Films),
	}

	if h.deps.SPARQL != nil {
		status.SPARQLEndpoint = h.deps.SPARQL.Endpoint()
		status.SPARQLBreaker = h.deps.SPARQL.BreakerState()
	}
	if h.deps.PosterStatus != nil {
		status.PostersEnabled = h.deps.PosterStatus.Enabled()
		if status.PostersEnabled {
			status.PosterBreaker = h.deps.PosterStatus.BreakerState()
		}
	}

	if degraded(status.SPARQLBreaker) || degraded(status.PosterBreaker) {
		status.Status = "degraded"
	}

	NewResponseWriter(w, r).Success(status)
}

func degraded(breaker string) bool {
	return breaker == "open" || breaker == "half-open"
}

// HealthReady handles GET /health/ready: 200 when the SPARQL endpoint
// answers a trivial query, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.deps.SPARQL == nil {
		rw.ServiceUnavailable("SPARQL client not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.deps.SPARQL.Ping(ctx); err != nil {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Not ready",
			ReadinessStatus{SPARQL: "unreachable", Error: err.Error()})
		return
	}
	rw.Success(ReadinessStatus{Ready: true, SPARQL: "ok"})
}
