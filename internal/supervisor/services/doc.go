// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package services adapts filmgraph components to suture.Service.
//
// Each wrapper translates a component's own lifecycle (blocking
// ListenAndServe, a watermill router's Run, a refresh loop) into
// Serve(ctx) error, returning once ctx is cancelled.
package services
