// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package ingest

import (
	"regexp"
	"strings"
)

// Record is one row of the cleaned film CSV.
type Record struct {
	Title    string
	Year     string // digits only, empty when unknown
	Duration int    // minutes, 0 when unknown
	Director string
	Actors   []string
	Genres   []string
}

// Stats summarizes a generated graph.
type Stats struct {
	Rows      int `json:"rows"`
	Skipped   int `json:"skipped"`
	Films     int `json:"films"`
	Actors    int `json:"actors"`
	Directors int `json:"directors"`
	Genres    int `json:"genres"`
	Triples   int `json:"triples"`
}

var (
	nonNameChars = regexp.MustCompile(`[^\p{L}\p{Nd}_\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// CleanName derives the local part of an individual's IRI from a display
// name: characters other than letters, digits, '_', '-' and whitespace are
// removed, then whitespace runs become '_'. It returns "" when nothing is
// left.
func CleanName(name string) string {
	clean := nonNameChars.ReplaceAllString(name, "")
	return spaceRuns.ReplaceAllString(strings.TrimSpace(clean), "_")
}

// splitNames splits a ';'-separated list, trimming and dropping blanks.
func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
