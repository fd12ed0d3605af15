// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultFusekiImage runs Fuseki from its docker entrypoint.
	DefaultFusekiImage = "stain/jena-fuseki:latest"

	// DefaultFusekiPort is Fuseki's HTTP port.
	DefaultFusekiPort = "3030"

	// DefaultDataset is the dataset created at startup.
	DefaultDataset = "films"
)

// FusekiContainer is a running Fuseki server with one in-memory dataset.
type FusekiContainer struct {
	testcontainers.Container

	// BaseURL is http://host:port.
	BaseURL string

	// QueryEndpoint accepts SPARQL queries.
	QueryEndpoint string

	// GraphStoreEndpoint accepts Graph Store Protocol uploads to the default
	// graph.
	GraphStoreEndpoint string
}

// FusekiOption configures the container.
type FusekiOption func(*fusekiConfig)

type fusekiConfig struct {
	image        string
	dataset      string
	startTimeout time.Duration
}

// WithFusekiImage overrides the image.
func WithFusekiImage(image string) FusekiOption {
	return func(c *fusekiConfig) { c.image = image }
}

// WithDataset overrides the dataset name.
func WithDataset(name string) FusekiOption {
	return func(c *fusekiConfig) { c.dataset = name }
}

// WithStartTimeout bounds the wait for the dataset to answer.
func WithStartTimeout(timeout time.Duration) FusekiOption {
	return func(c *fusekiConfig) { c.startTimeout = timeout }
}

// NewFusekiContainer starts Fuseki with an updatable in-memory dataset and
// waits until its query endpoint answers.
//
//	fuseki, err := testinfra.NewFusekiContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, fuseki.Container)
func NewFusekiContainer(ctx context.Context, opts ...FusekiOption) (*FusekiContainer, error) {
	cfg := &fusekiConfig{
		image:        DefaultFusekiImage,
		dataset:      DefaultDataset,
		startTimeout: 90 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	port := DefaultFusekiPort + "/tcp"
	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{port},
		Env: map[string]string{
			"ADMIN_PASSWORD": "admin",
			"JVM_ARGS":       "-Xmx512m",
		},
		Cmd: []string{"/jena-fuseki/fuseki-server", "--update", "--mem", "/" + cfg.dataset},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(port),
			wait.ForHTTP("/"+cfg.dataset+"/sparql?query=ASK%7B%7D").
				WithPort(port).
				WithStatusCodeMatcher(func(status int) bool { return status == 200 }),
		).WithDeadline(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create fuseki container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck // already failing
		return nil, fmt.Errorf("fuseki host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, DefaultFusekiPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck // already failing
		return nil, fmt.Errorf("fuseki port: %w", err)
	}

	base := fmt.Sprintf("http://%s:%s", host, mapped.Port())
	return &FusekiContainer{
		Container:          container,
		BaseURL:            base,
		QueryEndpoint:      base + "/" + cfg.dataset + "/sparql",
		GraphStoreEndpoint: base + "/" + cfg.dataset + "/data",
	}, nil
}
