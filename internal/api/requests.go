// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/filmgraph/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 16

// FilmsRequest is the query of GET /api/v1/films.
type FilmsRequest struct {
	Search string `json:"search" validate:"max=200"`
}

// URIRequest carries a film or genre IRI, from the query string or a body.
type URIRequest struct {
	URI string `json:"uri" validate:"required,film_iri"`
}

// PosterRequest is the query of GET /api/v1/posters.
type PosterRequest struct {
	Title string `json:"title" validate:"required,max=300"`
	Year  string `json:"year" validate:"omitempty,film_year"`
}

// validate writes a 400 and returns false when req is invalid.
func validate(rw *ResponseWriter, req interface{}) bool {
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// uriFromQuery reads and validates ?uri=.
func uriFromQuery(rw *ResponseWriter, r *http.Request) (string, bool) {
	req := URIRequest{URI: strings.TrimSpace(r.URL.Query().Get("uri"))}
	if !validate(rw, &req) {
		return "", false
	}
	return req.URI, true
}

// decodeJSON decodes a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(rw *ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(rw.w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			rw.BadRequest("Request body is required")
		case errors.As(err, &maxErr):
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
		default:
			rw.BadRequest("Invalid JSON body: " + err.Error())
		}
		return false
	}
	return true
}
