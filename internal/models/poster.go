// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package models

// PosterResult is the outcome of a poster lookup. Found is false when the
// film has no known poster; URL is then empty.
type PosterResult struct {
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
	URL   string `json:"url,omitempty"`
	Found bool   `json:"found"`
}
