package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityamenon/formulaace/internal/model"
	"github.com/adityamenon/formulaace/internal/storage"
)

func newTodoRepo(t *testing.T) *Todo {
	t.Helper()
	repo := NewTodo(storage.NewMemory())
	repo.now = func() time.Time {
		return time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	}
	return repo
}

func TestTodoSeedIdempotence(t *testing.T) {
	repo := newTodoRepo(t)

	first, err := repo.All()
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, task := range first {
		assert.Equal(t, "2024-01-05", task.Date, "seed tasks are dated today")
	}

	second, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTodoAddRoundTrip(t *testing.T) {
	repo := newTodoRepo(t)

	task, err := repo.Add("Revise thermodynamics", false, "2024-02-10")
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Revise thermodynamics", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, "2024-02-10", task.Date)

	todos, err := repo.All()
	require.NoError(t, err)
	assert.Contains(t, todos, task)
}

func TestTodoAddValidatesDate(t *testing.T) {
	repo := newTodoRepo(t)

	_, err := repo.Add("bad date", false, "2024-1-5")
	require.Error(t, err)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTodoToggleCompletion(t *testing.T) {
	repo := newTodoRepo(t)

	task, err := repo.Add("Toggle me", false, "2024-02-10")
	require.NoError(t, err)

	require.NoError(t, repo.ToggleCompletion(task.ID))
	todos, err := repo.All()
	require.NoError(t, err)
	for _, got := range todos {
		if got.ID == task.ID {
			assert.True(t, got.Completed)
		}
	}

	require.NoError(t, repo.ToggleCompletion(task.ID))
	todos, err = repo.All()
	require.NoError(t, err)
	for _, got := range todos {
		if got.ID == task.ID {
			assert.False(t, got.Completed)
		}
	}

	assert.ErrorIs(t, repo.ToggleCompletion("ghost"), ErrNotFound)
}

func TestTodoDeleteIsIdempotent(t *testing.T) {
	repo := newTodoRepo(t)

	task, err := repo.Add("Delete me", false, "2024-02-10")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(task.ID))
	require.NoError(t, repo.Delete(task.ID))

	todos, err := repo.All()
	require.NoError(t, err)
	for _, got := range todos {
		assert.NotEqual(t, task.ID, got.ID)
	}
}

func TestTodoForDateExactMatch(t *testing.T) {
	repo := newTodoRepo(t)
	// Drop the seed so only known fixtures remain.
	seeded, err := repo.All()
	require.NoError(t, err)
	for _, task := range seeded {
		require.NoError(t, repo.Delete(task.ID))
	}

	match, err := repo.Add("on the day", false, "2024-01-05")
	require.NoError(t, err)
	_, err = repo.Add("different day", false, "2024-01-06")
	require.NoError(t, err)

	got, err := repo.ForDate("2024-01-05")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)

	// Non-identical representations of the same day never match.
	got, err = repo.ForDate("2024-1-5")
	require.NoError(t, err)
	assert.Empty(t, got)
}
