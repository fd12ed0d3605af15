// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/filmgraph/internal/models"
	"github.com/tomtom215/filmgraph/internal/recommend"
)

// SelectionResponse is returned by POST /api/v1/selection.
type SelectionResponse struct {
	Film            models.Film               `json:"film"`
	Recommendations []models.Film             `json:"recommendations"`
	Sources         []recommend.SourceOutcome `json:"sources"`
}

// Recommendations handles GET /api/v1/recommendations?uri=. It does not
// touch the catalog state. A partial result (some relation lookups failed)
// is still a 200; the per-source outcomes say which ones.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uri, ok := uriFromQuery(rw, r)
	if !ok {
		return
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	res, err := h.deps.Recommender.Recommend(ctx, uri)
	if err != nil {
		respondServiceError(rw, "sparql", err)
		return
	}
	rw.List(res, len(res.Films))
}

// Select handles POST /api/v1/selection with body {"uri": "..."}.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req URIRequest
	if !decodeJSON(rw, r, &req) {
		return
	}
	req.URI = strings.TrimSpace(req.URI)
	if !validate(rw, &req) {
		return
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	film, res, err := h.deps.Catalog.SelectByURI(ctx, req.URI)
	if err != nil {
		respondServiceError(rw, "sparql", err)
		return
	}
	rw.Success(SelectionResponse{Film: film, Recommendations: res.Films, Sources: res.Sources})
}

// ClearSelection handles DELETE /api/v1/selection.
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.deps.Catalog.ClearSelection()
	NewResponseWriter(w, r).NoContent()
}

// State handles GET /api/v1/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.deps.Catalog.Snapshot())
}
