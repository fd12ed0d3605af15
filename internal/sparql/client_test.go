// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package sparql

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/resilience"
)

const catalogJSON = `{
  "head": {"vars": ["uri", "titre", "annee", "duree", "genre", "realisateur"]},
  "results": {"bindings": [
    {"uri": {"type": "uri", "value": "http://example.org/film#Film_Heat"},
     "titre": {"type": "literal", "value": "Heat"},
     "annee": {"type": "typed-literal", "datatype": "http://www.w3.org/2001/XMLSchema#integer", "value": "1995"}},
    {"uri": {"type": "uri", "value": "http://example.org/film#Film_Inception"},
     "titre": {"type": "literal", "value": "Inception", "xml:lang": "en"},
     "annee": {"type": "literal", "value": "2010"},
     "duree": {"type": "literal", "value": "148"},
     "genre": {"type": "literal", "value": "Sci-Fi"},
     "realisateur": {"type": "literal", "value": "Christopher Nolan"}}
  ]}
}`

func newTestClient(t *testing.T, url string, breaker bool) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{Endpoint: url, Timeout: 5 * time.Second, CircuitBreaker: breaker}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClient_SelectSendsProtocolHeaders(t *testing.T) {
	t.Parallel()

	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/sparql-query" {
			t.Errorf("Content-Type = %q", ct)
		}
		if acc := r.Header.Get("Accept"); acc != "application/json" {
			t.Errorf("Accept = %q", acc)
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = io.WriteString(w, catalogJSON)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	films, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if gotBody != BuildCatalogQuery() {
		t.Errorf("request body is not the catalog query:\n%s", gotBody)
	}
	if len(films) != 2 {
		t.Fatalf("got %d films, want 2", len(films))
	}
	if films[0].Title != "Heat" || films[0].Year != "1995" || films[0].Director != "" {
		t.Errorf("films[0] = %+v", films[0])
	}
	if films[1].Director != "Christopher Nolan" || films[1].Duration != "148" {
		t.Errorf("films[1] = %+v", films[1])
	}
}

func TestClient_SelectDecodesBindingTerms(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, catalogJSON)
	}))
	defer server.Close()

	rows, err := newTestClient(t, server.URL, false).Select(context.Background(), "test", "SELECT * WHERE {}")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := rows[0]["annee"].Datatype; got != "http://www.w3.org/2001/XMLSchema#integer" {
		t.Errorf("datatype = %q", got)
	}
	if got := rows[1]["titre"].Lang; got != "en" {
		t.Errorf("lang = %q", got)
	}
	if _, ok := rows[0].Get(VarDuration); ok {
		t.Error("unbound variable reported as bound")
	}
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "http status",
			status: http.StatusBadRequest,
			body:   "Parse error: line 3",
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("expected *HTTPError, got %v", err)
				}
				if httpErr.StatusCode != http.StatusBadRequest || !strings.Contains(httpErr.Body, "Parse error") {
					t.Errorf("HTTPError = %+v", httpErr)
				}
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   "<html>not json</html>",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
			},
		},
		{
			name:   "missing results",
			status: http.StatusOK,
			body:   `{"head": {}, "boolean": true}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("expected ErrMalformedResponse, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL, false).Search(context.Background(), "heat")
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestClient_EmptyBindings(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"head": {"vars": ["uri"]}, "results": {"bindings": []}}`)
	}))
	defer server.Close()

	films, err := newTestClient(t, server.URL, false).Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if films == nil || len(films) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", films)
	}
}

func TestClient_FetchRelationRejectsInvalidSubjectWithoutRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = io.WriteString(w, catalogJSON)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, false)
	_, err := c.FetchRelation(context.Background(), RelationActor, "> } DROP ALL")
	if !errors.Is(err, ErrInvalidURI) {
		t.Fatalf("expected ErrInvalidURI, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("endpoint called %d times, want 0", hits.Load())
	}
}

func TestClient_FetchRelationTagsRelation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, catalogJSON)
	}))
	defer server.Close()

	films, err := newTestClient(t, server.URL, false).FetchRelation(context.Background(), RelationDirector, inception)
	if err != nil {
		t.Fatalf("FetchRelation: %v", err)
	}
	for _, f := range films {
		if f.Relation != "director" {
			t.Errorf("relation = %q, want director", f.Relation)
		}
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, true)
	for i := 0; i < 10; i++ {
		_, _ = c.Genres(context.Background())
	}
	if c.BreakerState() != "open" {
		t.Fatalf("BreakerState() = %q, want open", c.BreakerState())
	}

	before := hits.Load()
	_, err := c.Genres(context.Background())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if hits.Load() != before {
		t.Error("open circuit must not reach the endpoint")
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, catalogJSON)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server.URL, true).Catalog(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientConfig{}, zerolog.Nop()); !errors.Is(err, ErrEndpointNotDefined) {
		t.Errorf("expected ErrEndpointNotDefined, got %v", err)
	}
	if _, err := NewClient(ClientConfig{Endpoint: "localhost:3030"}, zerolog.Nop()); err == nil {
		t.Error("expected error for endpoint without scheme")
	}
	c := newTestClient(t, "http://localhost:3030/films/sparql", false)
	if c.BreakerState() != "disabled" {
		t.Errorf("BreakerState() = %q, want disabled", c.BreakerState())
	}
}

func TestFoldDetails(t *testing.T) {
	t.Parallel()

	lit := func(v string) Value { return Value{Type: "literal", Value: v} }
	rows := []Binding{
		{"titre": lit("Inception"), "annee": lit("2010"), "genre": lit("Sci-Fi"), "realisateur": lit("Christopher Nolan"), "acteur": lit("Leonardo DiCaprio")},
		{"titre": lit("Inception"), "annee": lit("2010"), "genre": lit("Sci-Fi"), "realisateur": lit("Christopher Nolan"), "acteur": lit("Elliot Page")},
		{"titre": lit("Inception"), "annee": lit("2010"), "genre": lit("Thriller"), "realisateur": lit("Christopher Nolan"), "acteur": lit("Leonardo DiCaprio")},
	}

	d := FoldDetails(inception, rows)
	if d == nil {
		t.Fatal("expected details")
	}
	if d.Title != "Inception" || d.Year != "2010" || d.URI != inception {
		t.Errorf("details = %+v", d)
	}
	if strings.Join(d.Genres, ",") != "Sci-Fi,Thriller" {
		t.Errorf("genres = %v", d.Genres)
	}
	if strings.Join(d.Actors, ",") != "Leonardo DiCaprio,Elliot Page" {
		t.Errorf("actors = %v", d.Actors)
	}
	if len(d.Directors) != 1 {
		t.Errorf("directors = %v", d.Directors)
	}

	if FoldDetails(inception, nil) != nil {
		t.Error("expected nil for zero rows")
	}
}

func TestGraphStore_Upload(t *testing.T) {
	t.Parallel()

	var gotMethod, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	gs, err := NewGraphStore(server.URL, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGraphStore: %v", err)
	}

	doc := "<http://example.org/film#Film_Heat> a <http://example.org/film#Film> .\n"
	if err := gs.Replace(context.Background(), strings.NewReader(doc)); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if gotMethod != http.MethodPut || !strings.HasPrefix(gotType, "text/turtle") || gotBody != doc {
		t.Errorf("request = %s %q %q", gotMethod, gotType, gotBody)
	}

	if err := gs.Append(context.Background(), strings.NewReader(doc)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
}

func TestGraphStore_UploadError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Bad RDF", http.StatusBadRequest)
	}))
	defer server.Close()

	gs, err := NewGraphStore(server.URL, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGraphStore: %v", err)
	}
	err = gs.Append(context.Background(), strings.NewReader("garbage"))
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 HTTPError, got %v", err)
	}
}
