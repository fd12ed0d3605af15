// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package ingest turns a cleaned film CSV into the RDF graph the catalog
queries.

The pipeline has three steps:

 1. CSVReader opens the file through an in-memory DuckDB connection
    (read_csv_auto with all columns read as text) and yields Records.
 2. BuildGraph writes Turtle: the ontology header followed by one block per
    film and one per actor, director and genre.
 3. Load uploads the Turtle to a SPARQL 1.1 Graph Store Protocol endpoint.

Expected CSV columns:

	Film, Annee, Duree, Realisateur, Acteurs, Genres

Genre is accepted as an alias of Genres. Acteurs and Genres hold several
names separated by ';'. Only Film is required.

Individual IRIs are derived from names with CleanName, so two rows naming
the same actor share one Acteur individual, and two rows with the same
title are merged into one film.
*/
package ingest
