package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityamenon/formulaace/internal/storage"
)

func newChatRepo(t *testing.T) *Chat {
	t.Helper()
	repo := NewChat(storage.NewMemory())
	repo.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return repo
}

func TestChatSeedIdempotence(t *testing.T) {
	repo := newChatRepo(t)

	first, err := repo.All()
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Help with Kinematics Problem", first[0].Title)
	require.Len(t, first[0].Messages, 2)
	assert.True(t, first[0].Messages[0].IsUser)
	assert.False(t, first[0].Messages[1].IsUser)

	second, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChatCreateThread(t *testing.T) {
	repo := newChatRepo(t)

	id, err := repo.CreateThread("Optics doubt", "What is total internal reflection?")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	threads, err := repo.All()
	require.NoError(t, err)
	idx := -1
	for i := range threads {
		if threads[i].ID == id {
			idx = i
			break
		}
	}
	require.NotEqual(t, -1, idx)

	thread := threads[idx]
	assert.Equal(t, "Optics doubt", thread.Title)
	require.Len(t, thread.Messages, 1)
	assert.True(t, thread.Messages[0].IsUser)
	assert.Equal(t, "What is total internal reflection?", thread.Messages[0].Content)
	assert.Equal(t, thread.CreatedAt, thread.UpdatedAt)
}

func TestChatAppendPreservesOrder(t *testing.T) {
	repo := newChatRepo(t)

	id, err := repo.CreateThread("T", "m1")
	require.NoError(t, err)

	_, err = repo.AppendMessage(id, "m2", false)
	require.NoError(t, err)
	_, err = repo.AppendMessage(id, "m3", true)
	require.NoError(t, err)

	threads, err := repo.All()
	require.NoError(t, err)
	for _, thread := range threads {
		if thread.ID != id {
			continue
		}
		require.Len(t, thread.Messages, 3)
		assert.Equal(t, "m1", thread.Messages[0].Content)
		assert.Equal(t, "m2", thread.Messages[1].Content)
		assert.Equal(t, "m3", thread.Messages[2].Content)
	}
}

func TestChatAppendRefreshesUpdatedAt(t *testing.T) {
	repo := newChatRepo(t)

	id, err := repo.CreateThread("T", "m1")
	require.NoError(t, err)

	later := time.Date(2024, 3, 15, 11, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return later }

	msg, err := repo.AppendMessage(id, "m2", false)
	require.NoError(t, err)
	assert.Equal(t, later.UnixMilli(), msg.Timestamp)

	threads, err := repo.All()
	require.NoError(t, err)
	for _, thread := range threads {
		if thread.ID == id {
			assert.Equal(t, later.UnixMilli(), thread.UpdatedAt)
			assert.NotEqual(t, thread.CreatedAt, thread.UpdatedAt)
		}
	}
}

func TestChatAppendToMissingThread(t *testing.T) {
	repo := newChatRepo(t)

	_, err := repo.AppendMessage("ghost", "hello", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChatDeleteThreadIdempotent(t *testing.T) {
	repo := newChatRepo(t)

	id, err := repo.CreateThread("T", "m1")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteThread(id))
	require.NoError(t, repo.DeleteThread(id))

	threads, err := repo.All()
	require.NoError(t, err)
	for _, thread := range threads {
		assert.NotEqual(t, id, thread.ID)
	}
}

func TestChatActiveThreadPointer(t *testing.T) {
	repo := newChatRepo(t)

	id, err := repo.CreateThread("T", "m1")
	require.NoError(t, err)

	// Unset by default.
	active, err := repo.ActiveThreadID()
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.SetActiveThreadID(id))
	active, err = repo.ActiveThreadID()
	require.NoError(t, err)
	assert.Equal(t, id, active)

	// A dangling id is rejected, not stored.
	assert.ErrorIs(t, repo.SetActiveThreadID("ghost"), ErrNotFound)

	// Deleting the active thread clears the pointer.
	require.NoError(t, repo.DeleteThread(id))
	active, err = repo.ActiveThreadID()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestChatSetActiveThreadClear(t *testing.T) {
	repo := newChatRepo(t)

	id, err := repo.CreateThread("T", "m1")
	require.NoError(t, err)
	require.NoError(t, repo.SetActiveThreadID(id))

	require.NoError(t, repo.SetActiveThreadID(""))
	active, err := repo.ActiveThreadID()
	require.NoError(t, err)
	assert.Empty(t, active)
}
