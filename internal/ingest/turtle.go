// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/tomtom215/filmgraph/internal/sparql"
)

// IRI prefixes of generated individuals, relative to sparql.Namespace.
const (
	PrefixFilm     = "Film_"
	PrefixActor    = "Acteur_"
	PrefixDirector = "Realisateur_"
	PrefixGenre    = "Genre_"
)

const ontologyHeader = `@prefix ns: <` + sparql.Namespace + `> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ns:Film a owl:Class ;
    rdfs:label "Film"@fr ;
    rdfs:comment "Un film cinématographique"@fr .

ns:Acteur a owl:Class ;
    rdfs:label "Acteur"@fr ;
    rdfs:comment "Une personne jouant dans un film"@fr .

ns:Realisateur a owl:Class ;
    rdfs:label "Réalisateur"@fr ;
    rdfs:comment "La personne qui réalise un film"@fr .

ns:Genre a owl:Class ;
    rdfs:label "Genre"@fr ;
    rdfs:comment "Le genre cinématographique d'un film"@fr .

ns:hasActor a owl:ObjectProperty ;
    rdfs:label "a pour acteur"@fr ;
    rdfs:domain ns:Film ;
    rdfs:range ns:Acteur .

ns:directedBy a owl:ObjectProperty ;
    rdfs:label "réalisé par"@fr ;
    rdfs:domain ns:Film ;
    rdfs:range ns:Realisateur .

ns:hasGenre a owl:ObjectProperty ;
    rdfs:label "a pour genre"@fr ;
    rdfs:domain ns:Film ;
    rdfs:range ns:Genre .

ns:titre a owl:DatatypeProperty ;
    rdfs:label "titre"@fr ;
    rdfs:domain ns:Film ;
    rdfs:range xsd:string .

ns:nom a owl:DatatypeProperty ;
    rdfs:label "nom"@fr ;
    rdfs:range xsd:string .

ns:releaseYear a owl:DatatypeProperty ;
    rdfs:label "année de sortie"@fr ;
    rdfs:domain ns:Film ;
    rdfs:range xsd:integer .

ns:duration a owl:DatatypeProperty ;
    rdfs:label "durée en minutes"@fr ;
    rdfs:domain ns:Film ;
    rdfs:range xsd:integer .

`

// ontologyTriples is the number of triples in ontologyHeader.
const ontologyTriples = 4*3 + 3*4 + 4 + 3 + 4 + 4

// entity is a named individual (actor, director or genre).
type entity struct {
	local string
	name  string
}

// film accumulates everything known about one film IRI.
type film struct {
	local     string
	title     string
	year      string
	duration  int
	directors []string
	actors    []string
	genres    []string
}

// graph is the deduplicated set of individuals built from records.
type graph struct {
	films     []*film
	filmIndex map[string]*film

	actors, directors, genres []entity
	seen                      map[string]struct{}
}

func newGraph() *graph {
	return &graph{
		filmIndex: make(map[string]*film),
		seen:      make(map[string]struct{}),
	}
}

// individual registers a named individual once and returns its local name.
func (g *graph) individual(prefix, name string, list *[]entity) string {
	clean := CleanName(name)
	if clean == "" {
		return ""
	}
	local := prefix + clean
	if _, ok := g.seen[local]; !ok {
		g.seen[local] = struct{}{}
		*list = append(*list, entity{local: local, name: name})
	}
	return local
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func (g *graph) add(rec *Record) bool {
	clean := CleanName(rec.Title)
	if clean == "" {
		return false
	}
	local := PrefixFilm + clean

	f, ok := g.filmIndex[local]
	if !ok {
		f = &film{local: local, title: rec.Title}
		g.filmIndex[local] = f
		g.films = append(g.films, f)
	}
	if f.year == "" {
		f.year = rec.Year
	}
	if f.duration == 0 {
		f.duration = rec.Duration
	}

	if rec.Director != "" {
		f.directors = appendUnique(f.directors, g.individual(PrefixDirector, rec.Director, &g.directors))
	}
	for _, a := range rec.Actors {
		f.actors = appendUnique(f.actors, g.individual(PrefixActor, a, &g.actors))
	}
	for _, genre := range rec.Genres {
		f.genres = appendUnique(f.genres, g.individual(PrefixGenre, genre, &g.genres))
	}
	return true
}

// BuildGraph writes the ontology and the individuals described by records
// to w as Turtle.
func BuildGraph(w io.Writer, records []Record) (Stats, error) {
	g := newGraph()
	stats := Stats{Rows: len(records)}
	for i := range records {
		if !g.add(&records[i]) {
			stats.Skipped++
		}
	}

	bw := bufio.NewWriter(w)
	tw := &turtleWriter{w: bw}

	tw.raw(ontologyHeader)
	tw.triples += ontologyTriples

	for _, f := range g.films {
		tw.subject(f.local, "ns:Film")
		tw.literal("ns:titre", f.title)
		if f.year != "" {
			tw.integer("ns:releaseYear", f.year)
		}
		if f.duration > 0 {
			tw.integer("ns:duration", strconv.Itoa(f.duration))
		}
		for _, d := range f.directors {
			tw.ref("ns:directedBy", d)
		}
		for _, a := range f.actors {
			tw.ref("ns:hasActor", a)
		}
		for _, genre := range f.genres {
			tw.ref("ns:hasGenre", genre)
		}
		tw.end()
	}

	for _, group := range []struct {
		class string
		list  []entity
	}{
		{"ns:Realisateur", g.directors},
		{"ns:Acteur", g.actors},
		{"ns:Genre", g.genres},
	} {
		for _, e := range group.list {
			tw.subject(e.local, group.class)
			tw.literal("ns:nom", e.name)
			tw.end()
		}
	}

	if tw.err != nil {
		return Stats{}, fmt.Errorf("write turtle: %w", tw.err)
	}
	if err := bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("flush turtle: %w", err)
	}

	stats.Films = len(g.films)
	stats.Actors = len(g.actors)
	stats.Directors = len(g.directors)
	stats.Genres = len(g.genres)
	stats.Triples = tw.triples
	return stats, nil
}

// turtleWriter writes one subject block at a time and keeps the first
// write error.
type turtleWriter struct {
	w       *bufio.Writer
	err     error
	triples int
}

func (t *turtleWriter) raw(s string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(s)
}

func (t *turtleWriter) subject(local, class string) {
	t.raw("ns:" + local + " a " + class)
	t.triples++
}

func (t *turtleWriter) literal(pred, value string) {
	t.raw(" ;\n    " + pred + ` "` + sparql.EscapeLiteral(value) + `"^^xsd:string`)
	t.triples++
}

func (t *turtleWriter) integer(pred, digits string) {
	t.raw(" ;\n    " + pred + ` "` + digits + `"^^xsd:integer`)
	t.triples++
}

func (t *turtleWriter) ref(pred, local string) {
	t.raw(" ;\n    " + pred + " ns:" + local)
	t.triples++
}

func (t *turtleWriter) end() {
	t.raw(" .\n\n")
}
