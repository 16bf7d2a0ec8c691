package repository

import (
	"sync"

	"github.com/adityamenon/formulaace/internal/model"
	"github.com/adityamenon/formulaace/internal/storage"
)

// Content manages the chapter catalog. It is the sole mutator of the
// chapters collection; concepts, formulas and examples are mutated by
// reading a chapter, editing its collections and calling Update with the
// whole record.
type Content struct {
	store storage.Store
	mu    sync.Mutex
}

// NewContent creates a content repository over the given store.
func NewContent(s storage.Store) *Content {
	return &Content{store: s}
}

// All returns every chapter. The first call against an empty store writes
// the starter catalog; later calls return whatever is persisted, never
// re-seeding.
func (r *Content) All() ([]model.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Add validates and appends a new chapter. The caller supplies the id;
// it must be unique within the catalog.
func (r *Content) Add(ch model.Chapter) error {
	if err := model.ValidateChapter(ch); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	chapters, err := r.load()
	if err != nil {
		return err
	}
	for _, existing := range chapters {
		if existing.ID == ch.ID {
			return &model.ValidationError{Field: "id", Reason: "already in use"}
		}
	}
	chapters = append(chapters, ch)
	return storage.Save(r.store, chaptersKey, chapters)
}

// Update replaces the stored chapter with the same id. Unlike Delete it
// reports ErrNotFound when the target no longer exists, so callers can
// tell a stale id from a clean write.
func (r *Content) Update(ch model.Chapter) error {
	if err := model.ValidateChapter(ch); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	chapters, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range chapters {
		if existing.ID == ch.ID {
			chapters[i] = ch
			return storage.Save(r.store, chaptersKey, chapters)
		}
	}
	return ErrNotFound
}

// Delete removes a chapter by id. Deleting an absent id is a no-op.
func (r *Content) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chapters, err := r.load()
	if err != nil {
		return err
	}
	kept := chapters[:0]
	for _, ch := range chapters {
		if ch.ID != id {
			kept = append(kept, ch)
		}
	}
	if len(kept) == len(chapters) {
		return nil
	}
	return storage.Save(r.store, chaptersKey, kept)
}

func (r *Content) load() ([]model.Chapter, error) {
	return storage.Load(r.store, chaptersKey, seedChapters())
}
