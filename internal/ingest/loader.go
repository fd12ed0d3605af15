// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Uploader is satisfied by *sparql.GraphStore.
type Uploader interface {
	Append(ctx context.Context, body io.Reader) error
	Replace(ctx context.Context, body io.Reader) error
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Replace swaps the target graph contents instead of appending.
	Replace bool
}

// Load builds the graph for records and uploads it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Load(ctx context.Context, records []Record, up Uploader, opts LoadOptions, logger zerolog.Logger) (Stats, error) {
	start := time.Now()

	var buf bytes.Buffer
	stats, err := BuildGraph(&buf, records)
	if err != nil {
		return Stats{}, err
	}

	if opts.Replace {
		err = up.Replace(ctx, &buf)
	} else {
		err = up.Append(ctx, &buf)
	}
	if err != nil {
		return stats, fmt.Errorf("upload graph: %w", err)
	}

	logger.Info().
		Int("films", stats.Films).
		Int("actors", stats.Actors).
		Int("directors", stats.Directors).
		Int("genres", stats.Genres).
		Int("triples", stats.Triples).
		Int("skipped_rows", stats.Skipped).
		Bool("replace", opts.Replace).
		Dur("elapsed", time.Since(start)).
		Msg("graph loaded")
	return stats, nil
}

// ReadFile reads every record from the CSV at path.
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	r, err := NewCSVReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll(ctx)
}
