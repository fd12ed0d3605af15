// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Besides the built-in
// tags it registers:
//
//	film_iri   absolute IRI that can be embedded in a SPARQL query as <...>
//	film_year  four-digit release year
//
// Validation failures are returned as *RequestValidationError, which converts
// to the API error envelope with ToAPIError:
//
//	type SelectionRequest struct {
//	    URI string `json:"uri" validate:"required,film_iri"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
//
// Field names in messages use the json tag when present, so errors refer to
// "uri" rather than "URI".
package validation
