// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package api exposes the catalog, recommendation and poster services over HTTP
using the chi router.

Routes:

	GET    /health                       liveness with circuit breaker states
	GET    /health/ready                 readiness (pings the SPARQL endpoint)
	GET    /metrics                      Prometheus
	GET    /api/v1/films?search=         search term + catalog fetch
	GET    /api/v1/films/details?uri=    one film with all genres, directors, actors
	GET    /api/v1/genres                all genres
	GET    /api/v1/genres/films?uri=     films of one genre
	GET    /api/v1/recommendations?uri=  stateless recommendation lookup
	POST   /api/v1/selection             {"uri": ...} select a film
	DELETE /api/v1/selection             clear the selection
	GET    /api/v1/state                 catalog state snapshot
	GET    /api/v1/state/ws              catalog state stream (WebSocket)
	GET    /api/v1/posters?title=&year=  poster lookup

Every response uses the APIResponse envelope. Errors map as follows:

	invalid URI or parameters     400 VALIDATION_ERROR
	unknown film                  404 NOT_FOUND
	selection superseded          409 CONFLICT
	circuit breaker open          503 SERVICE_UNAVAILABLE
	upstream timeout              504 TIMEOUT
	other SPARQL failures         502 EXTERNAL_SERVICE_FAILED
*/
package api
