// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package models defines the data structures shared across Filmgraph.

Films, genres and film details are read from the knowledge graph by the
sparql package and returned unchanged by the HTTP API. Poster results come
from the poster cache. None of these types carry behaviour beyond small
helpers; ordering, merging and caching live in the packages that own them.

Key Components:

  - Film: one catalog or recommendation row, identified by URI
  - FilmDetails: a single film with every genre, director and actor folded in
  - Genre: a genre resource and its display name
  - PosterResult: the outcome of a poster lookup for a title and year

A Film with an empty URI has no identity. The recommendation merge drops such
rows rather than inventing a key for them.
*/
package models
