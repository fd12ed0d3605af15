// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package poster

import (
	"errors"
	"sync"
	"time"
)

// ErrStoreClosed is returned by a store after Close.
var ErrStoreClosed = errors.New("poster store is closed")

// Entry is a stored lookup outcome. Found false is the "no poster" sentinel,
// which is distinct from a key that was never looked up.
type Entry struct {
	URL      string    `json:"url,omitempty"`
	Found    bool      `json:"found"`
	CachedAt time.Time `json:"cached_at"`
}

// Store holds lookup outcomes by key. Entries never expire.
type Store interface {
	// Get returns the entry for key and whether it exists.
	Get(key string) (Entry, bool, error)

	// Put stores entry under key, overwriting any previous value.
	Put(key string, entry Entry) error

	// Len returns the number of stored entries.
	Len() (int, error)

	Close() error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, false, ErrStoreClosed
	}
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore) Put(key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}
	return len(s.entries), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
