// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

type mockUploader struct {
	appends  atomic.Int32
	replaces atomic.Int32
	body     string
	err      error
}

func (m *mockUploader) read(body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.body = string(b)
	return m.err
}

func (m *mockUploader) Append(_ context.Context, body io.Reader) error {
	m.appends.Add(1)
	return m.read(body)
}

func (m *mockUploader) Replace(_ context.Context, body io.Reader) error {
	m.replaces.Add(1)
	return m.read(body)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		replace      bool
		wantAppends  int32
		wantReplaces int32
	}{
		{"append", false, 1, 0},
		{"replace", true, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			up := &mockUploader{}
			stats, err := Load(context.Background(), sampleRecords(), up, LoadOptions{Replace: tt.replace}, zerolog.Nop())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if up.appends.Load() != tt.wantAppends || up.replaces.Load() != tt.wantReplaces {
				t.Errorf("appends/replaces = %d/%d", up.appends.Load(), up.replaces.Load())
			}
			if stats.Films != 3 {
				t.Errorf("Films = %d", stats.Films)
			}
			if !strings.Contains(up.body, "ns:Film_Inception a ns:Film") {
				t.Error("uploaded body is not the generated graph")
			}
		})
	}
}

func TestLoad_UploadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	up := &mockUploader{err: boom}
	_, err := Load(context.Background(), sampleRecords(), up, LoadOptions{}, zerolog.Nop())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped upload error", err)
	}
}
