// Package storage provides string-keyed persistence backends and the
// typed load/save helpers the repositories are built on.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when no value exists at a key.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is the interface for a string-keyed value store.
// All implementations are safe for concurrent use.
type Store interface {
	// Get returns the value at key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set writes value at key, fully overwriting any previous value.
	Set(key string, value []byte) error

	// Delete removes the value at key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Backend returns the name of the storage backend.
	Backend() string

	Close() error
}

// Load reads and decodes the value at key. If the key is absent, the seed
// value is written and returned. A value that fails to decode is treated
// the same way: the key is reset to the seed rather than propagating a
// corrupt record to the caller.
func Load[T any](s Store, key string, seed T) (T, error) {
	raw, err := s.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		if err := Save(s, key, seed); err != nil {
			return seed, err
		}
		return seed, nil
	}
	if err != nil {
		return seed, fmt.Errorf("load %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		// Corrupt value: reset to the seed instead of failing every
		// subsequent read against this key.
		if serr := Save(s, key, seed); serr != nil {
			return seed, serr
		}
		return seed, nil
	}
	return v, nil
}

// Save encodes v as JSON and writes it at key, overwriting any previous
// value. There is no merge.
func Save[T any](s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
