// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	// DuckDB driver - read_csv_auto handles quoting, encodings and headers
	_ "github.com/duckdb/duckdb-go/v2"
)

// ErrMissingColumn is returned when the CSV has no Film column.
var ErrMissingColumn = errors.New("missing required column")

// Column names in the cleaned CSV.
const (
	ColumnFilm     = "Film"
	ColumnYear     = "Annee"
	ColumnDuration = "Duree"
	ColumnDirector = "Realisateur"
	ColumnActors   = "Acteurs"
	ColumnGenres   = "Genres"
	columnGenreAlt = "Genre"
)

// CSVReader reads film records from a CSV file using DuckDB's CSV sniffer.
type CSVReader struct {
	db      *sql.DB
	path    string
	columns map[string]string // logical name -> column name as found in the file
}

// NewCSVReader opens path and checks its header.
func NewCSVReader(path string) (*CSVReader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	r := &CSVReader{db: db, path: path}
	if err := r.resolveColumns(); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, err
	}
	return r, nil
}

// source is the table function reading the file. Every column is read as
// text; numeric columns are parsed in Go so "142.0" and "142" both work.
func (r *CSVReader) source() string {
	return fmt.Sprintf("read_csv_auto('%s', header = true, all_varchar = true)",
		strings.ReplaceAll(r.path, "'", "''"))
}

func (r *CSVReader) resolveColumns() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+r.source()+" LIMIT 0")
	if err != nil {
		return fmt.Errorf("read csv header %s: %w", r.path, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read csv header %s: %w", r.path, err)
	}

	found := make(map[string]string, len(names))
	for _, n := range names {
		found[strings.ToLower(strings.TrimSpace(n))] = n
	}

	r.columns = make(map[string]string, 6)
	for _, logical := range []string{ColumnFilm, ColumnYear, ColumnDuration, ColumnDirector, ColumnActors, ColumnGenres} {
		if actual, ok := found[strings.ToLower(logical)]; ok {
			r.columns[logical] = actual
		}
	}
	if _, ok := r.columns[ColumnGenres]; !ok {
		if actual, ok := found[strings.ToLower(columnGenreAlt)]; ok {
			r.columns[ColumnGenres] = actual
		}
	}

	if _, ok := r.columns[ColumnFilm]; !ok {
		return fmt.Errorf("%w %q in %s", ErrMissingColumn, ColumnFilm, r.path)
	}
	return nil
}

// selectExpr returns the projection for a logical column, or a NULL
// placeholder when the file does not have it.
func (r *CSVReader) selectExpr(logical string) string {
	actual, ok := r.columns[logical]
	if !ok {
		return "NULL"
	}
	return `"` + strings.ReplaceAll(actual, `"`, `""`) + `"`
}

// Close releases the DuckDB connection.
func (r *CSVReader) Close() error {
	return r.db.Close()
}

// Count returns the number of data rows.
func (r *CSVReader) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.source()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// ReadAll returns every row in file order. Rows without a title are
// returned with an empty Title; BuildGraph skips them.
func (r *CSVReader) ReadAll(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s FROM %s",
		r.selectExpr(ColumnFilm),
		r.selectExpr(ColumnYear),
		r.selectExpr(ColumnDuration),
		r.selectExpr(ColumnDirector),
		r.selectExpr(ColumnActors),
		r.selectExpr(ColumnGenres),
		r.source(),
	)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query csv: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var title, year, duration, director, actors, genres sql.NullString
		if err := rows.Scan(&title, &year, &duration, &director, &actors, &genres); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records)+1, err)
		}
		records = append(records, Record{
			Title:    strings.TrimSpace(title.String),
			Year:     parseYear(year.String),
			Duration: parseDuration(duration.String),
			Director: strings.TrimSpace(director.String),
			Actors:   splitNames(actors.String),
			Genres:   splitNames(genres.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate csv rows: %w", err)
	}
	return records, nil
}

// parseYear keeps the value only when it is all digits.
func parseYear(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return s
}

// parseDuration accepts integer or float minutes; non-positive values are 0.
func parseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
