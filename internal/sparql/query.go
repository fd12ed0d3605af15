// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package sparql

import (
	"fmt"
	"net/url"
	"strings"
)

// Namespace is the film ontology namespace bound to the ns: prefix.
const Namespace = "http://example.org/film#"

const (
	prefixNS  = "PREFIX ns: <" + Namespace + ">\n"
	prefixRDF = "PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>\n"
)

// filmListQuery is shared by the catalog and search queries. filter is either
// empty or a complete FILTER clause built from escaped input.
func filmListQuery(filter string) string {
	var sb strings.Builder
	sb.WriteString(prefixNS)
	sb.WriteString(prefixRDF)
	sb.WriteString(`
SELECT ?uri ?titre ?annee ?duree ?genre ?realisateur WHERE {
  ?uri rdf:type ns:Film .
  ?uri ns:titre ?titre .
  OPTIONAL { ?uri ns:releaseYear ?annee }
  OPTIONAL { ?uri ns:duration ?duree }
  OPTIONAL {
    ?uri ns:hasGenre ?genreUri .
    ?genreUri ns:nom ?genre .
  }
  OPTIONAL {
    ?uri ns:directedBy ?dirUri .
    ?dirUri ns:nom ?realisateur .
  }
`)
	if filter != "" {
		sb.WriteString("  ")
		sb.WriteString(filter)
		sb.WriteString("\n")
	}
	sb.WriteString("}\nORDER BY ?titre\n")
	return sb.String()
}

// BuildCatalogQuery lists every film with title and optional year, duration,
// genre name and director name, ordered by title.
func BuildCatalogQuery() string {
	return filmListQuery("")
}

// BuildSearchQuery is BuildCatalogQuery restricted to titles containing term,
// case-insensitively. term is escaped as a string literal.
func BuildSearchQuery(term string) string {
	return filmListQuery(`FILTER(CONTAINS(LCASE(?titre), LCASE("` + EscapeLiteral(term) + `")))`)
}

// BuildRelationQuery lists films sharing relation with subjectID, excluding
// subjectID itself. The actor variant also projects a genre name.
func BuildRelationQuery(subjectID string, relation Relation) (string, error) {
	if err := ValidateIRI(subjectID); err != nil {
		return "", err
	}
	predicate, ok := relationPredicates[relation]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRelation, string(relation))
	}

	subject := "<" + subjectID + ">"

	var sb strings.Builder
	sb.WriteString(prefixNS)
	if relation == RelationActor {
		sb.WriteString("\nSELECT DISTINCT ?uri ?titre ?annee ?genre WHERE {\n")
	} else {
		sb.WriteString("\nSELECT DISTINCT ?uri ?titre ?annee WHERE {\n")
	}
	fmt.Fprintf(&sb, "  %s %s ?shared .\n", subject, predicate)
	fmt.Fprintf(&sb, "  ?uri %s ?shared .\n", predicate)
	sb.WriteString("  ?uri ns:titre ?titre .\n")
	sb.WriteString("  OPTIONAL { ?uri ns:releaseYear ?annee }\n")
	if relation == RelationActor {
		sb.WriteString("  OPTIONAL {\n    ?uri ns:hasGenre ?genreUri .\n    ?genreUri ns:nom ?genre .\n  }\n")
	}
	fmt.Fprintf(&sb, "  FILTER(?uri != %s)\n", subject)
	sb.WriteString("}\n")
	return sb.String(), nil
}

// BuildFilmDetailsQuery returns one row per (genre, director, actor)
// combination for filmID. Callers fold the rows into a single record.
func BuildFilmDetailsQuery(filmID string) (string, error) {
	if err := ValidateIRI(filmID); err != nil {
		return "", err
	}
	s := "<" + filmID + ">"
	return prefixNS + `
SELECT ?titre ?annee ?duree ?genre ?realisateur ?acteur WHERE {
  ` + s + ` ns:titre ?titre .
  OPTIONAL { ` + s + ` ns:releaseYear ?annee }
  OPTIONAL { ` + s + ` ns:duration ?duree }
  OPTIONAL {
    ` + s + ` ns:hasGenre ?genreUri .
    ?genreUri ns:nom ?genre .
  }
  OPTIONAL {
    ` + s + ` ns:directedBy ?dirUri .
    ?dirUri ns:nom ?realisateur .
  }
  OPTIONAL {
    ` + s + ` ns:hasActor ?actorUri .
    ?actorUri ns:nom ?acteur .
  }
}
`, nil
}

// BuildGenresQuery lists every genre with its name.
func BuildGenresQuery() string {
	return prefixNS + prefixRDF + `
SELECT DISTINCT ?uri ?nom WHERE {
  ?uri rdf:type ns:Genre .
  ?uri ns:nom ?nom .
}
ORDER BY ?nom
`
}

// BuildFilmsByGenreQuery lists films of genreID with year and director.
func BuildFilmsByGenreQuery(genreID string) (string, error) {
	if err := ValidateIRI(genreID); err != nil {
		return "", err
	}
	return prefixNS + `
SELECT ?uri ?titre ?annee ?realisateur WHERE {
  ?uri ns:hasGenre <` + genreID + `> .
  ?uri ns:titre ?titre .
  OPTIONAL { ?uri ns:releaseYear ?annee }
  OPTIONAL {
    ?uri ns:directedBy ?dirUri .
    ?dirUri ns:nom ?realisateur .
  }
}
ORDER BY ?titre
`, nil
}

// EscapeLiteral escapes s for use inside a double- or single-quoted SPARQL
// string literal (STRING_LITERAL1/2). Quotes, backslash and the ECHAR
// characters get backslash escapes; other control characters become \uXXXX.
func EscapeLiteral(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ValidateIRI accepts an absolute IRI that can be written between angle
// brackets without escaping. It rejects the characters IRIREF forbids
// (<>"{}|^`\ and anything at or below space) so a caller-supplied
// identifier cannot close the IRI and inject graph patterns.
func ValidateIRI(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURI)
	}
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			return fmt.Errorf("%w: illegal character %q in %q", ErrInvalidURI, r, s)
		}
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidURI, s)
	}
	if u.Opaque == "" && u.Host == "" && u.Path == "" {
		return fmt.Errorf("%w: %q has no hierarchical part", ErrInvalidURI, s)
	}
	return nil
}
