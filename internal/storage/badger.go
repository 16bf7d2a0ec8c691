package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists values in a BadgerDB directory. Suited to
// deployments that want an embedded LSM store instead of SQLite.
type BadgerStore struct {
	db *badger.DB
}

// Ensure BadgerStore implements Store interface.
var _ Store = (*BadgerStore)(nil)

// NewBadger opens or creates a Badger database in the given directory.
func NewBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get returns the value at key, or ErrKeyNotFound.
func (b *BadgerStore) Get(key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set writes value at key.
func (b *BadgerStore) Set(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete removes the value at key.
func (b *BadgerStore) Delete(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Backend returns the storage backend name.
func (b *BadgerStore) Backend() string { return "badger" }

// Close closes the Badger database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
