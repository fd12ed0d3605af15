// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"net/http"
	"strings"
)

// Films handles GET /api/v1/films.
//
// With a search parameter (even empty) the term is stored and the matching
// films fetched; without one the current term is reused. The fetched films
// are returned even if a concurrent fetch has since replaced the state.
func (h *Handler) Films(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	q := r.URL.Query()
	if !q.Has("search") {
		films, err := h.deps.Catalog.FetchFilms(ctx)
		if err != nil {
			respondServiceError(rw, "sparql", err)
			return
		}
		rw.List(films, len(films))
		return
	}

	req := FilmsRequest{Search: strings.TrimSpace(q.Get("search"))}
	if !validate(rw, &req) {
		return
	}
	films, err := h.deps.Catalog.Search(ctx, req.Search)
	if err != nil {
		respondServiceError(rw, "sparql", err)
		return
	}
	rw.List(films, len(films))
}

// FilmDetails handles GET /api/v1/films/details?uri=.
func (h *Handler) FilmDetails(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uri, ok := uriFromQuery(rw, r)
	if !ok {
		return
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	details, err := h.deps.Catalog.Details(ctx, uri)
	if err != nil {
		respondServiceError(rw, "sparql", err)
		return
	}
	rw.Success(details)
}

// Genres handles GET /api/v1/genres.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	genres, err := h.deps.Catalog.Genres(ctx)
	if err != nil {
		respondServiceError(rw, "sparql", err)
		return
	}
	rw.List(genres, len(genres))
}

// GenreFilms handles GET /api/v1/genres/films?uri=.
func (h *Handler) GenreFilms(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uri, ok := uriFromQuery(rw, r)
	if !ok {
		return
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()

	films, err := h.deps.Catalog.FilmsByGenre(ctx, uri)
	if err != nil {
		respondServiceError(rw, "sparql", err)
		return
	}
	rw.List(films, len(films))
}
