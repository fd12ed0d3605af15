// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package catalog holds the shared catalog view and the two flows that write
// to it: the film fetch (catalog or search) and the selection, which runs the
// recommendation aggregator.
//
// State is an explicit handle passed to whoever needs it. Each flow tags its
// work with a generation number when it starts; a result that comes back
// after a newer fetch, selection or clear is discarded with ErrStale instead
// of overwriting fresher data.
package catalog
