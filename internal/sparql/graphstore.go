// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package sparql

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/metrics"
)

const contentTypeTurtle = "text/turtle; charset=utf-8"

// GraphStore loads Turtle documents through the SPARQL 1.1 Graph Store HTTP
// Protocol. Requests target the endpoint as configured, which for Fuseki is
// the dataset's /data service and addresses the default graph.
type GraphStore struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewGraphStore returns a GraphStore for endpoint.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGraphStore(endpoint string, timeout time.Duration, logger zerolog.Logger) (*GraphStore, error) {
	if endpoint == "" {
		return nil, ErrEndpointNotDefined
	}
	if err := checkHTTPEndpoint(endpoint); err != nil {
		return nil, fmt.Errorf("graph store endpoint: %w", err)
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GraphStore{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "graphstore").Logger(),
	}, nil
}

// Append adds the triples in body to the graph (HTTP POST).
func (g *GraphStore) Append(ctx context.Context, body io.Reader) error {
	return g.send(ctx, http.MethodPost, body)
}

// Replace swaps the graph contents for body (HTTP PUT).
func (g *GraphStore) Replace(ctx context.Context, body io.Reader) error {
	return g.send(ctx, http.MethodPut, body)
}

func (g *GraphStore) send(ctx context.Context, method string, body io.Reader) (err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		metrics.GraphStoreUploadsTotal.WithLabelValues(outcome).Inc()
	}()

	req, err := http.NewRequestWithContext(ctx, method, g.endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeTurtle)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph store %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	g.logger.Info().
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("graph uploaded")
	return nil
}
