// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package sparql

import (
	"errors"
	"fmt"
)

// Variable names projected by the film queries. They follow the dataset's
// ontology vocabulary, which is French.
const (
	VarURI      = "uri"
	VarTitle    = "titre"
	VarYear     = "annee"
	VarDuration = "duree"
	VarGenre    = "genre"
	VarDirector = "realisateur"
	VarActor    = "acteur"
	VarName     = "nom"
)

// Value is one RDF term in a SPARQL 1.1 JSON results binding.
type Value struct {
	// Type is "uri", "literal", "typed-literal" or "bnode".
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Binding is one result row: variable name to value. Unbound OPTIONAL
// variables are absent from the map.
type Binding map[string]Value

// Get returns the lexical value of name and whether it is bound.
func (b Binding) Get(name string) (string, bool) {
	v, ok := b[name]
	if !ok {
		return "", false
	}
	return v.Value, true
}

// Value returns the lexical value of name or "" when unbound.
func (b Binding) Value(name string) string {
	return b[name].Value
}

// URI returns the row's identifier. A row whose uri is unbound or empty has
// no identity.
func (b Binding) URI() (string, bool) {
	v, ok := b[VarURI]
	if !ok || v.Value == "" {
		return "", false
	}
	return v.Value, true
}

// Response is the application/sparql-results+json envelope.
type Response struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Relation is a film-to-film connection used for recommendations.
type Relation string

const (
	RelationActor    Relation = "actor"
	RelationGenre    Relation = "genre"
	RelationDirector Relation = "director"
)

// Relations lists every relation in recommendation merge order.
var Relations = []Relation{RelationActor, RelationGenre, RelationDirector}

// ParseRelation validates s as a Relation.
func ParseRelation(s string) (Relation, error) {
	r := Relation(s)
	if _, ok := relationPredicates[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRelation, s)
	}
	return r, nil
}

var relationPredicates = map[Relation]string{
	RelationActor:    "ns:hasActor",
	RelationGenre:    "ns:hasGenre",
	RelationDirector: "ns:directedBy",
}

// Errors returned by the query builders and client.
var (
	ErrInvalidURI         = errors.New("invalid URI")
	ErrUnknownRelation    = errors.New("unknown relation")
	ErrMalformedResponse  = errors.New("malformed SPARQL response")
	ErrEndpointNotDefined = errors.New("endpoint not configured")
)

// HTTPError is returned for a non-2xx response from the endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}
