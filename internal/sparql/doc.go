// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package sparql builds SPARQL queries over the film ontology and runs them
against a SPARQL 1.1 endpoint such as Apache Jena Fuseki.

Query builders are pure functions returning query text. Caller-supplied
strings never reach a query unescaped: search terms go through
EscapeLiteral and resource identifiers must pass ValidateIRI, which the
relation, details and films-by-genre builders call before building.

Client sends each query as an HTTP POST with Content-Type
application/sparql-query and Accept application/json, then decodes the
SPARQL JSON results format and returns results.bindings in order. Non-2xx
responses become *HTTPError. An optional circuit breaker guards the
endpoint.

GraphStore uploads Turtle to a Graph Store Protocol endpoint and is used by
the ingest tool.
*/
package sparql
