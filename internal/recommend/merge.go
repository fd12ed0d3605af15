// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package recommend

import "github.com/tomtom215/filmgraph/internal/models"

// Merge returns actor ++ genre ++ director with later duplicates of a URI
// removed. The result is never nil.
func Merge(actor, genre, director []models.Film) []models.Film {
	films, _ := mergeSources(actor, genre, director)
	return films
}

// mergeSources is Merge over any number of lists. It also reports how many
// films were dropped for lacking a URI.
func mergeSources(lists ...[]models.Film) (films []models.Film, unidentified int) {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	films = make([]models.Film, 0, total)
	seen := make(map[string]struct{}, total)

	for _, l := range lists {
		for i := range l {
			if !l[i].HasIdentity() {
				unidentified++
				continue
			}
			if _, dup := seen[l[i].URI]; dup {
				continue
			}
			seen[l[i].URI] = struct{}{}
			films = append(films, l[i])
		}
	}
	return films, unidentified
}
