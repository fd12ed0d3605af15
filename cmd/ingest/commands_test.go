// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const testCSV = `Film,Acteurs,Realisateur,Genres,Annee,Duree
Inception,Leonardo DiCaprio; Tom Hardy,Christopher Nolan,Action; Science Fiction,2010,148
Heat,Al Pacino; Robert De Niro,Michael Mann,Crime,1995,170
`

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "films_clean.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	input := writeInput(t)
	output := filepath.Join(t.TempDir(), "out", "films.ttl")

	out, err := execute(t, "build", "--input", input, "--output", output)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(out, "(2 films)") {
		t.Errorf("stdout = %q", out)
	}

	ttl, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"ns:Film_Inception a ns:Film", "ns:Acteur_Robert_De_Niro a ns:Acteur"} {
		if !strings.Contains(string(ttl), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestBuildCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "build", "--input", filepath.Join(t.TempDir(), "nope.csv"), "--output", filepath.Join(t.TempDir(), "x.ttl"))
	if err == nil {
		t.Error("expected error for missing input")
	}
}

func TestLoadCommand(t *testing.T) {
	var (
		calls  atomic.Int32
		method atomic.Value
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		method.Store(r.Method)
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/turtle") {
			t.Errorf("Content-Type = %q", ct)
		}
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	input := writeInput(t)

	if _, err := execute(t, "load", "--input", input, "--endpoint", srv.URL+"/films/data"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := method.Load(); got != http.MethodPost {
		t.Errorf("method = %v, want POST", got)
	}

	if _, err := execute(t, "load", "--input", input, "--endpoint", srv.URL+"/films/data", "--replace"); err != nil {
		t.Fatalf("load --replace: %v", err)
	}
	if got := method.Load(); got != http.MethodPut {
		t.Errorf("method = %v, want PUT", got)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d", calls.Load())
	}
}

func TestLoadCommand_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "dataset not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := execute(t, "load", "--input", writeInput(t), "--endpoint", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want HTTP 404 error", err)
	}
}
