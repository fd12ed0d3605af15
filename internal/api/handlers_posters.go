// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/filmgraph/internal/models"
)

// Posters handles GET /api/v1/posters?title=&year=.
//
// A poster that does not exist, a lookup that failed, and lookups being
// disabled all return 200 with found=false, so the caller renders a
// placeholder in every case.
func (h *Handler) Posters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := r.URL.Query()
	req := PosterRequest{
		Title: strings.TrimSpace(q.Get("title")),
		Year:  strings.TrimSpace(q.Get("year")),
	}
	if !validate(rw, &req) {
		return
	}

	if h.deps.Posters == nil {
		rw.Success(models.PosterResult{Title: req.Title, Year: req.Year})
		return
	}

	ctx, cancel := h.upstreamContext(r.Context())
	defer cancel()
	rw.Success(h.deps.Posters.Result(ctx, req.Title, req.Year))
}
