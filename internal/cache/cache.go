// Package cache stores extraction results keyed by document content and
// extraction options, so unchanged documents are not re-processed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "extract:"

// Entry is the cached outcome of one extraction run. It carries the
// full run summary so a hit can answer without touching the document.
type Entry struct {
	Text      string    `json:"text"`
	PageCount int       `json:"page_count"`
	PagesUsed []int     `json:"pages_used,omitempty"`
	Sentences int       `json:"sentences"`
	Headlines int       `json:"headlines"`
	BodyFont  string    `json:"body_font,omitempty"`
	BodySize  float64   `json:"body_size,omitempty"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a badger-backed cache. A nil *Store is a valid no-op cache,
// so callers can hold one unconditionally and only open it when a
// cache directory is configured.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the cache database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logger is noisy; callers log around the cache

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get looks up an entry. The second return is false on a miss.
func (s *Store) Get(key string) (*Entry, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, nil
	}

	var entry Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return &entry, true, nil
}

// Put stores an entry under key, replacing any previous value.
func (s *Store) Put(key string, entry Entry) error {
	if s == nil || s.db == nil {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// DocumentKey derives the cache key for a document: a hash over the
// file's bytes plus the extraction fingerprint, so any change to either
// the document or the options misses cleanly.
func DocumentKey(path, fingerprint string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	return hex.EncodeToString(h.Sum(nil)), nil
}
