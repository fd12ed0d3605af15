// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package poster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const defaultKeyPrefix = "poster:"

// BadgerStore persists lookup outcomes in BadgerDB so that a restart does not
// repeat third-party calls. Entries are written without TTL.
type BadgerStore struct {
	db     *badger.DB
	prefix []byte
	ownsDB bool

	mu     sync.RWMutex
	closed bool
}

// OpenBadgerStore opens (or creates) a database at path. The store closes
// the database on Close.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open poster cache at %s: %w", path, err)
	}
	s := NewBadgerStore(db, "")
	s.ownsDB = true
	return s, nil
}

// NewBadgerStore wraps an open database. Keys are namespaced by prefix,
// which defaults to "poster:".
func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &BadgerStore{db: db, prefix: []byte(prefix)}
}

func (s *BadgerStore) makeKey(key string) []byte {
	k := make([]byte, 0, len(s.prefix)+len(key))
	k = append(k, s.prefix...)
	return append(k, key...)
}

func (s *BadgerStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *BadgerStore) Get(key string) (Entry, bool, error) {
	if s.isClosed() {
		return Entry{}, false, ErrStoreClosed
	}

	var (
		entry Entry
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.makeKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return Entry{}, false, err
	}
	return entry, found, nil
}

func (s *BadgerStore) Put(key string, entry Entry) error {
	if s.isClosed() {
		return ErrStoreClosed
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.makeKey(key), data)
	})
}

func (s *BadgerStore) Len() (int, error) {
	if s.isClosed() {
		return 0, ErrStoreClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = s.prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
