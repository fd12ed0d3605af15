// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/filmgraph/internal/catalog"
	"github.com/tomtom215/filmgraph/internal/resilience"
	"github.com/tomtom215/filmgraph/internal/sparql"
)

// ErrCodeTimeout is returned when an upstream call exceeds its deadline.
const ErrCodeTimeout = "TIMEOUT"

// respondServiceError maps a service error to a status code and envelope.
func respondServiceError(rw *ResponseWriter, service string, err error) {
	switch {
	case errors.Is(err, sparql.ErrInvalidURI):
		rw.ValidationError(err.Error(), map[string]interface{}{"field": "uri"})
	case errors.Is(err, catalog.ErrFilmNotFound):
		rw.NotFound("Film not found")
	case errors.Is(err, catalog.ErrStale):
		rw.Conflict("The selection changed while recommendations were loading")
	case errors.Is(err, resilience.ErrCircuitOpen):
		rw.ServiceUnavailable(service + " is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, service+" did not respond in time")
	default:
		rw.ExternalServiceError(service, err)
	}
}
