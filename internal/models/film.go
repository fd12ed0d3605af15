// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package models

// Film is one row of the catalog, a search result or a recommendation.
// Optional fields are empty when the graph has no value for them.
type Film struct {
	URI      string `json:"uri"`
	Title    string `json:"title"`
	Year     string `json:"year,omitempty"`
	Duration string `json:"duration,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Director string `json:"director,omitempty"`

	// Relation names the shared relation (actor, genre or director) that
	// produced a recommendation. Empty for catalog rows.
	Relation string `json:"relation,omitempty"`
}

// HasIdentity reports whether f carries a URI.
func (f *Film) HasIdentity() bool {
	return f.URI != ""
}

// FilmDetails is a single film with its multi-valued properties folded into
// lists. Lists keep first-seen order and hold no duplicates.
type FilmDetails struct {
	URI       string   `json:"uri"`
	Title     string   `json:"title"`
	Year      string   `json:"year,omitempty"`
	Duration  string   `json:"duration,omitempty"`
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
	Actors    []string `json:"actors"`
}

// Genre is a genre resource.
type Genre struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}
