package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adityamenon/formulaace/internal/model"
	"github.com/adityamenon/formulaace/internal/storage"
)

// Todo manages the flat list of date-tagged study tasks.
type Todo struct {
	store storage.Store
	mu    sync.Mutex

	// now is swappable in tests.
	now func() time.Time
}

// NewTodo creates a todo repository over the given store.
func NewTodo(s storage.Store) *Todo {
	return &Todo{store: s, now: time.Now}
}

// All returns every task. Seeds two sample tasks dated today on first use.
func (r *Todo) All() ([]model.TodoTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Add assigns a fresh id, validates and appends the task.
func (r *Todo) Add(text string, completed bool, date string) (model.TodoTask, error) {
	task := model.TodoTask{
		ID:        fmt.Sprintf("todo-%s", uuid.NewString()),
		Text:      text,
		Completed: completed,
		Date:      date,
	}
	if err := model.ValidateTodo(task); err != nil {
		return model.TodoTask{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return model.TodoTask{}, err
	}
	todos = append(todos, task)
	if err := storage.Save(r.store, todosKey, todos); err != nil {
		return model.TodoTask{}, err
	}
	return task, nil
}

// ToggleCompletion flips a task's completed flag. Returns ErrNotFound for
// an id that no longer exists.
func (r *Todo) ToggleCompletion(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return err
	}
	for i := range todos {
		if todos[i].ID == id {
			todos[i].Completed = !todos[i].Completed
			return storage.Save(r.store, todosKey, todos)
		}
	}
	return ErrNotFound
}

// Delete removes a task by id. Deleting an absent id is a no-op.
func (r *Todo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return err
	}
	kept := todos[:0]
	for _, t := range todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(todos) {
		return nil
	}
	return storage.Save(r.store, todosKey, kept)
}

// ForDate returns the tasks whose date equals the given day key exactly.
// Plain string comparison, no calendar math: "2024-1-5" never matches
// "2024-01-05". Linear scan; fine for a single user's personal list.
func (r *Todo) ForDate(date string) ([]model.TodoTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todos, err := r.load()
	if err != nil {
		return nil, err
	}
	var matched []model.TodoTask
	for _, t := range todos {
		if t.Date == date {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (r *Todo) load() ([]model.TodoTask, error) {
	return storage.Load(r.store, todosKey, seedTodos(r.now()))
}
