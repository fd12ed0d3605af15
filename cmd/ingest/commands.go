// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/filmgraph/internal/config"
	"github.com/tomtom215/filmgraph/internal/ingest"
	"github.com/tomtom215/filmgraph/internal/logging"
	"github.com/tomtom215/filmgraph/internal/sparql"
)

const defaultInput = "films_clean.csv"

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "filmgraph-ingest",
		Short:         "Build and load the film knowledge graph",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := logging.DefaultConfig()
			cfg.Level = opts.logLevel
			cfg.Format = opts.logFormat
			cfg.Output = cmd.ErrOrStderr()
			logging.Init(cfg)
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "log format (json or console)")

	root.AddCommand(newBuildCmd(), newLoadCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the ontology and individuals as Turtle",
		Long: `Reads the cleaned film CSV and writes a Turtle document containing the
film ontology (classes and properties) and one individual per film, actor,
director and genre.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := ingest.ReadFile(cmd.Context(), input)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			f, err := os.Create(output) //nolint:gosec // path comes from the operator
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}

			stats, err := ingest.BuildGraph(f, records)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			logging.Info().
				Str("output", output).
				Int("films", stats.Films).
				Int("actors", stats.Actors).
				Int("directors", stats.Directors).
				Int("genres", stats.Genres).
				Int("triples", stats.Triples).
				Int("skipped_rows", stats.Skipped).
				Msg("graph written")
			cmd.Printf("Wrote %d triples (%d films) to %s\n", stats.Triples, stats.Films, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", defaultInput, "cleaned film CSV")
	cmd.Flags().StringVarP(&output, "output", "o", "films.ttl", "Turtle output file")
	return cmd
}

func newLoadCmd() *cobra.Command {
	var (
		input    string
		endpoint string
		replace  bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Upload the graph to a Graph Store Protocol endpoint",
		Long: `Builds the graph from the cleaned film CSV and uploads it to the triple
store. By default triples are added to the existing graph (POST); --replace
swaps the graph contents (PUT).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if endpoint == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load configuration: %w", err)
				}
				endpoint = cfg.SPARQL.GraphStoreEndpoint
			}
			if endpoint == "" {
				return errors.New("no graph store endpoint: pass --endpoint or set SPARQL_GRAPH_STORE_ENDPOINT")
			}

			store, err := sparql.NewGraphStore(endpoint, timeout, logging.Logger())
			if err != nil {
				return err
			}

			records, err := ingest.ReadFile(cmd.Context(), input)
			if err != nil {
				return err
			}

			stats, err := ingest.Load(cmd.Context(), records, store, ingest.LoadOptions{Replace: replace}, logging.Logger())
			if err != nil {
				return err
			}
			cmd.Printf("Loaded %d triples (%d films) into %s\n", stats.Triples, stats.Films, endpoint)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", defaultInput, "cleaned film CSV")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Graph Store Protocol endpoint (default from configuration)")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the graph instead of appending")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "upload timeout")
	return cmd
}
