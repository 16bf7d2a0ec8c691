package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps all values in a single key/value table. It is the
// default persistent backend: one file, no server, survives restarts.
type SQLiteStore struct {
	conn *sql.DB
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &SQLiteStore{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Get returns the value at key, or ErrKeyNotFound.
func (db *SQLiteStore) Get(key string) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set writes value at key, replacing any previous value.
func (db *SQLiteStore) Set(key string, value []byte) error {
	_, err := db.conn.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Delete removes the value at key.
func (db *SQLiteStore) Delete(key string) error {
	_, err := db.conn.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// Backend returns the storage backend name.
func (db *SQLiteStore) Backend() string { return "sqlite" }

// Close closes the database connection.
func (db *SQLiteStore) Close() error {
	return db.conn.Close()
}
