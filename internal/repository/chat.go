package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adityamenon/formulaace/internal/model"
	"github.com/adityamenon/formulaace/internal/storage"
)

// Chat manages conversation threads. Messages are append-only: the only
// bulk mutation is whole-thread deletion.
type Chat struct {
	store storage.Store
	mu    sync.Mutex

	// now is swappable in tests.
	now func() time.Time
}

// NewChat creates a chat-thread repository over the given store.
func NewChat(s storage.Store) *Chat {
	return &Chat{store: s, now: time.Now}
}

// All returns every thread. Seeds a sample conversation on first use.
func (r *Chat) All() ([]model.ChatThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// CreateThread builds a thread whose first message is the user's, stamps
// both timestamps with the creation instant and returns the new id.
func (r *Chat) CreateThread(title, firstMessage string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return "", err
	}
	now := r.now().UnixMilli()
	thread := model.ChatThread{
		ID:    fmt.Sprintf("thread-%s", uuid.NewString()),
		Title: title,
		Messages: []model.ChatMessage{
			{
				ID:        fmt.Sprintf("msg-%s", uuid.NewString()),
				Content:   firstMessage,
				IsUser:    true,
				Timestamp: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	threads = append(threads, thread)
	if err := storage.Save(r.store, chatThreadsKey, threads); err != nil {
		return "", err
	}
	return thread.ID, nil
}

// AppendMessage appends a message to the thread and refreshes its
// UpdatedAt. Returns ErrNotFound when the thread no longer exists; the
// thread's earlier messages are never reordered or rewritten.
func (r *Chat) AppendMessage(threadID, content string, isUser bool) (model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return model.ChatMessage{}, err
	}
	for i := range threads {
		if threads[i].ID != threadID {
			continue
		}
		now := r.now().UnixMilli()
		msg := model.ChatMessage{
			ID:        fmt.Sprintf("msg-%s", uuid.NewString()),
			Content:   content,
			IsUser:    isUser,
			Timestamp: now,
		}
		threads[i].Messages = append(threads[i].Messages, msg)
		threads[i].UpdatedAt = now
		if err := storage.Save(r.store, chatThreadsKey, threads); err != nil {
			return model.ChatMessage{}, err
		}
		return msg, nil
	}
	return model.ChatMessage{}, ErrNotFound
}

// DeleteThread removes a thread by id; absent ids are a no-op. When the
// deleted thread was the active one, the active pointer is cleared so it
// never dangles.
func (r *Chat) DeleteThread(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	threads, err := r.load()
	if err != nil {
		return err
	}
	kept := threads[:0]
	for _, t := range threads {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(threads) {
		return nil
	}
	if err := storage.Save(r.store, chatThreadsKey, kept); err != nil {
		return err
	}

	active, err := storage.Load(r.store, activeThreadKey, "")
	if err != nil {
		return err
	}
	if active == id {
		return storage.Save(r.store, activeThreadKey, "")
	}
	return nil
}

// ActiveThreadID returns the persisted active-thread pointer, or "" when
// none is set.
func (r *Chat) ActiveThreadID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return storage.Load(r.store, activeThreadKey, "")
}

// SetActiveThreadID points the active-thread marker at an existing
// thread. An id with no matching thread is rejected with ErrNotFound
// rather than stored dangling. Passing "" clears the pointer.
func (r *Chat) SetActiveThreadID(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		threads, err := r.load()
		if err != nil {
			return err
		}
		found := false
		for _, t := range threads {
			if t.ID == id {
				found = true
				break
			}
		}
		if !found {
			return ErrNotFound
		}
	}
	return storage.Save(r.store, activeThreadKey, id)
}

func (r *Chat) load() ([]model.ChatThread, error) {
	return storage.Load(r.store, chatThreadsKey, seedThreads(r.now()))
}
