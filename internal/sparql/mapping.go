// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package sparql

import "github.com/tomtom215/filmgraph/internal/models"

// FilmsFromBindings converts rows to films in row order. Rows without a uri
// are kept with an empty URI; callers that need identity filter them.
func FilmsFromBindings(rows []Binding) []models.Film {
	films := make([]models.Film, 0, len(rows))
	for _, row := range rows {
		films = append(films, models.Film{
			URI:      row.Value(VarURI),
			Title:    row.Value(VarTitle),
			Year:     row.Value(VarYear),
			Duration: row.Value(VarDuration),
			Genre:    row.Value(VarGenre),
			Director: row.Value(VarDirector),
		})
	}
	return films
}

// FoldDetails merges the per-combination detail rows into one record.
// Returns nil for zero rows.
func FoldDetails(filmID string, rows []Binding) *models.FilmDetails {
	if len(rows) == 0 {
		return nil
	}

	d := &models.FilmDetails{
		URI:       filmID,
		Genres:    []string{},
		Directors: []string{},
		Actors:    []string{},
	}
	seen := map[string]map[string]struct{}{
		VarGenre:    {},
		VarDirector: {},
		VarActor:    {},
	}
	add := func(list *[]string, name, v string) {
		if v == "" {
			return
		}
		if _, ok := seen[name][v]; ok {
			return
		}
		seen[name][v] = struct{}{}
		*list = append(*list, v)
	}

	for _, row := range rows {
		if d.Title == "" {
			d.Title = row.Value(VarTitle)
		}
		if d.Year == "" {
			d.Year = row.Value(VarYear)
		}
		if d.Duration == "" {
			d.Duration = row.Value(VarDuration)
		}
		add(&d.Genres, VarGenre, row.Value(VarGenre))
		add(&d.Directors, VarDirector, row.Value(VarDirector))
		add(&d.Actors, VarActor, row.Value(VarActor))
	}
	return d
}
