package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openBackends builds one of each store against temp locations.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	badger, err := NewBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { badger.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
		"badger": badger,
	}
}

func TestStoreGetSetDelete(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, store.Set("k", []byte("v1")))
			got, err := store.Get("k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			// Full overwrite, no merge.
			require.NoError(t, store.Set("k", []byte("v2")))
			got, err = store.Get("k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, store.Delete("k"))
			_, err = store.Get("k")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			// Deleting an absent key is a no-op.
			assert.NoError(t, store.Delete("k"))
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("k", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = NewSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestBadgerSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	db, err := NewBadger(dir)
	require.NoError(t, err)
	require.NoError(t, db.Set("k", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = NewBadger(dir)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoadSeedsOnFirstAccess(t *testing.T) {
	store := NewMemory()
	seed := []record{{Name: "a", Count: 1}}

	got, err := Load(store, "records", seed)
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	// The seed must now be persisted.
	raw, err := store.Get("records")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a","count":1}]`, string(raw))
}

func TestLoadDoesNotReseed(t *testing.T) {
	store := NewMemory()
	seed := []record{{Name: "seed", Count: 0}}

	_, err := Load(store, "records", seed)
	require.NoError(t, err)

	require.NoError(t, Save(store, "records", []record{{Name: "edited", Count: 7}}))

	got, err := Load(store, "records", seed)
	require.NoError(t, err)
	assert.Equal(t, []record{{Name: "edited", Count: 7}}, got)
}

func TestLoadResetsCorruptValue(t *testing.T) {
	store := NewMemory()
	require.NoError(t, store.Set("records", []byte("{not json")))

	seed := []record{{Name: "seed", Count: 1}}
	got, err := Load(store, "records", seed)
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	// The corrupt value must have been replaced.
	again, err := Load(store, "records", []record(nil))
	require.NoError(t, err)
	assert.Equal(t, seed, again)
}

func TestSaveRoundTrip(t *testing.T) {
	store := NewMemory()
	in := record{Name: "round", Count: 42}

	require.NoError(t, Save(store, "one", in))
	got, err := Load(store, "one", record{})
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
